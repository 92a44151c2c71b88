package domain

// Sentinel node ids. They never collide with catalog ids because the catalog
// loader rejects them.
const (
	// ReviewStage is the terminal state in which the summary is presented.
	ReviewStage = "review_summary"
	// FollowUpStage marks a session that is asking generated follow-up questions.
	FollowUpStage = "follow_up"
)

// Stage names returned to the transport.
const (
	StageChat   = "chat"
	StageReview = ReviewStage
)

// MaxFollowUps caps the number of generated questions injected into a session.
const MaxFollowUps = 3

// Default capture keys used by the summary builder.
const (
	DefaultEmergencyKey = "is_emergency"
	DefaultServiceKey   = "service_type"
)

// ContextPreselectedService is the turn context key carrying a service chosen
// before the chat was opened.
const ContextPreselectedService = "preselectedService"
