package domain

// TurnMessage is one entry of the history a transport resends on every turn.
// Clients send the body as either text or content.
type TurnMessage struct {
	Role    string `json:"role"`
	Text    string `json:"text,omitempty"`
	Content string `json:"content,omitempty"`
}

// Body returns the message text, preferring Text over Content.
func (m TurnMessage) Body() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Content
}

// TurnRequest is the input of a turn: the full message history so far.
type TurnRequest struct {
	SessionID string         `json:"sessionId"`
	Messages  []TurnMessage  `json:"messages"`
	Context   map[string]any `json:"context,omitempty"`
}

// UserMessages returns the bodies of the user-role messages in order.
func (r TurnRequest) UserMessages() []string {
	var out []string
	for _, m := range r.Messages {
		if m.Role == RoleUser {
			out = append(out, m.Body())
		}
	}
	return out
}

// TurnResult is the transport-facing projection of a session after a turn.
type TurnResult struct {
	Messages    []Message `json:"messages"`
	Stage       string    `json:"stage"`
	Summary     *Summary  `json:"summary"`
	CurrentNode string    `json:"currentNode"`

	// Diff holds what the turn changed; nil when nothing did.
	Diff *SessionDiff `json:"-"`
}

// Project builds the turn result for s.
func Project(s *Session) *TurnResult {
	res := &TurnResult{
		Messages:    make([]Message, len(s.Transcript)),
		Stage:       s.Stage(),
		CurrentNode: s.CurrentNodeID,
	}
	copy(res.Messages, s.Transcript)
	if s.InReview() && s.Summary != nil {
		sum := *s.Summary
		res.Summary = &sum
	}
	return res
}
