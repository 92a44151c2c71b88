package domain

import "encoding/json"

// SessionDiff represents the changes a turn made to a session.
// It is designed to be serialized to JSON for partial updates on the client.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentNodeID *string `json:"current_node_id,omitempty"`
	Stage         *string `json:"stage,omitempty"`

	// Appended contains only transcript messages added by the turn.
	Appended []Message `json:"appended,omitempty"`

	// AnswersAdded is the number of answers recorded by the turn.
	AnswersAdded int `json:"answers_added,omitempty"`

	// CapturedPatch is a JSON merge patch over the captured values.
	// It is filled in by transports that need it.
	CapturedPatch json.RawMessage `json:"captured_patch,omitempty"`

	Summary *Summary `json:"summary,omitempty"`
}

// Diff calculates the difference between oldSession and newSession.
// If oldSession is nil, it returns a diff representing the entire newSession.
// It returns nil when nothing visible changed.
func Diff(oldSession, newSession *Session) *SessionDiff {
	if newSession == nil {
		return nil
	}

	diff := &SessionDiff{SessionID: newSession.ID}

	if oldSession == nil || oldSession.CurrentNodeID != newSession.CurrentNodeID {
		node := newSession.CurrentNodeID
		diff.CurrentNodeID = &node
	}
	if oldSession == nil || oldSession.Stage() != newSession.Stage() {
		stage := newSession.Stage()
		diff.Stage = &stage
		if newSession.Summary != nil {
			diff.Summary = newSession.Summary
		}
	}

	// Transcript and answers are append-only.
	oldLen, oldAnswers := 0, 0
	if oldSession != nil {
		oldLen = len(oldSession.Transcript)
		oldAnswers = len(oldSession.Answers)
	}
	if len(newSession.Transcript) > oldLen {
		diff.Appended = newSession.Transcript[oldLen:]
	}
	if len(newSession.Answers) > oldAnswers {
		diff.AnswersAdded = len(newSession.Answers) - oldAnswers
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.CurrentNodeID == nil &&
		d.Stage == nil &&
		len(d.Appended) == 0 &&
		d.AnswersAdded == 0 &&
		len(d.CapturedPatch) == 0
}
