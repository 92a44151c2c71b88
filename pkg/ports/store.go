package ports

import (
	"context"
	"time"

	"github.com/richfrem/quoteagent/pkg/domain"
)

// SessionStore defines the interface for persisting conversation sessions.
// Implementations must not share mutable state with callers: Put stores a copy
// and Get returns a fresh one.
type SessionStore interface {
	// Get retrieves the session for the given ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// Put persists the session under its ID.
	Put(ctx context.Context, session *domain.Session) error

	// Delete removes the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)

	// Sweep removes sessions whose UpdatedAt is older than maxAge and reports
	// how many were removed.
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}
