package domain

import "time"

// Message roles.
const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// Presentation hints attached to assistant messages.
const (
	MessageQuestion = "question"
	MessageSummary  = "summary"
	MessageNotice   = "notice"

	InputChoice = "choice"
	InputText   = "text"
)

// Message is one visible entry of the dialogue transcript.
type Message struct {
	Role      string   `json:"role"`
	Text      string   `json:"text"`
	Type      string   `json:"type,omitempty"`
	InputType string   `json:"inputType,omitempty"`
	Options   []string `json:"options,omitempty"`
}

// Answer is a resolved question/answer pair.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	// CaptureKey records where the answer was stored. It is not part of the summary.
	CaptureKey string `json:"capture_key,omitempty"`
}

// FollowUps holds the generated questions and how many have been asked.
type FollowUps struct {
	Questions []string `json:"questions,omitempty"`
	Asked     int      `json:"asked"`
}

// Pending reports whether generated questions remain to be asked.
func (f FollowUps) Pending() bool {
	return f.Asked < len(f.Questions)
}

// BranchProgress is the cursor into a materialized branch sub-script.
type BranchProgress struct {
	NodeID    string   `json:"node_id"`
	CaseKey   string   `json:"case_key"`
	Questions []string `json:"questions"`
	Index     int      `json:"index"`
}

// Session is one customer's in-progress intake.
type Session struct {
	ID string `json:"id"`

	// CurrentNodeID points into the catalog, or holds FollowUpStage / ReviewStage.
	CurrentNodeID string `json:"current_node_id"`

	// Captured maps capture keys to the raw answer text.
	Captured map[string]string `json:"captured"`

	// Answers is append-only, one entry per resolved turn.
	Answers []Answer `json:"answers"`

	Transcript []Message `json:"transcript"`

	// ProcessedMessageCount is the replay cursor over user-role messages.
	ProcessedMessageCount int `json:"processed_message_count"`

	Branch             *BranchProgress `json:"branch,omitempty"`
	FollowUps          FollowUps       `json:"follow_ups"`
	FollowUpsRequested bool            `json:"follow_ups_requested"`

	Summary *Summary `json:"summary,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates an empty session. The engine is responsible for asking
// the first question.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Captured:   make(map[string]string),
		Answers:    []Answer{},
		Transcript: []Message{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// InReview reports whether the session reached the terminal review stage.
func (s *Session) InReview() bool {
	return s.CurrentNodeID == ReviewStage
}

// Stage returns the transport-facing stage name.
func (s *Session) Stage() string {
	if s.InReview() {
		return StageReview
	}
	return StageChat
}

// Say appends an assistant message to the transcript.
func (s *Session) Say(msg Message) {
	msg.Role = RoleAssistant
	s.Transcript = append(s.Transcript, msg)
}

// Record appends an answer and stores it under key.
func (s *Session) Record(question, answer, key string) {
	s.Answers = append(s.Answers, Answer{Question: question, Answer: answer, CaptureKey: key})
	if key != "" {
		s.Captured[key] = answer
	}
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.Captured = make(map[string]string, len(s.Captured))
	for k, v := range s.Captured {
		next.Captured[k] = v
	}
	next.Answers = append([]Answer{}, s.Answers...)
	next.Transcript = make([]Message, len(s.Transcript))
	for i, m := range s.Transcript {
		m.Options = append([]string(nil), m.Options...)
		next.Transcript[i] = m
	}
	next.FollowUps.Questions = append([]string(nil), s.FollowUps.Questions...)
	if s.Branch != nil {
		b := *s.Branch
		b.Questions = append([]string(nil), s.Branch.Questions...)
		next.Branch = &b
	}
	if s.Summary != nil {
		sum := *s.Summary
		sum.Answers = append([]Answer{}, s.Summary.Answers...)
		next.Summary = &sum
	}
	return &next
}
