package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter EventType = "node_enter"
	EventFollowUp  EventType = "follow_up"
	EventReview    EventType = "review"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// NodeEvent represents entry into a catalog node.
type NodeEvent struct {
	EventBase
	NodeID string   `json:"node_id"`
	Kind   NodeKind `json:"kind"`
}

// FollowUpEvent reports the outcome of a follow-up generation attempt.
type FollowUpEvent struct {
	EventBase
	Questions int           `json:"questions"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// ReviewEvent is emitted when a session reaches the review stage.
type ReviewEvent struct {
	EventBase
	Service   string `json:"service"`
	Emergency bool   `json:"emergency"`
	Answers   int    `json:"answers"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnNodeEnter func(context.Context, *NodeEvent)
	OnFollowUp  func(context.Context, *FollowUpEvent)
	OnReview    func(context.Context, *ReviewEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnNodeEnter: chain(h.OnNodeEnter, other.OnNodeEnter),
		OnFollowUp:  chain(h.OnFollowUp, other.OnFollowUp),
		OnReview:    chain(h.OnReview, other.OnReview),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
