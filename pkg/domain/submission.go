package domain

import "time"

// SubmissionStatusNew is the initial status of a submitted request.
const SubmissionStatusNew = "new"

// Submission is a reviewed intake handed to the relational store.
type Submission struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id,omitempty"`
	ServiceKey   string    `json:"service_key"`
	ServiceLabel string    `json:"service_label"`
	Emergency    bool      `json:"is_emergency"`
	Answers      []Answer  `json:"answers"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewSubmission builds a submission from a reviewed summary.
func NewSubmission(sessionID, userID string, sum Summary) *Submission {
	return &Submission{
		SessionID:    sessionID,
		UserID:       userID,
		ServiceKey:   sum.Service.Key,
		ServiceLabel: sum.Service.Label,
		Emergency:    sum.Emergency,
		Answers:      append([]Answer{}, sum.Answers...),
		Status:       SubmissionStatusNew,
		CreatedAt:    time.Now().UTC(),
	}
}

// FollowUpRequest is the input of a follow-up generator.
type FollowUpRequest struct {
	SessionID string
	Service   string
	Answers   []Answer
}
