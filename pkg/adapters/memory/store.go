package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/richfrem/quoteagent/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Session
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Session),
	}
}

// Put persists a copy of the session in memory.
func (s *Store) Put(ctx context.Context, session *domain.Session) error {
	copied := session.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[session.ID] = copied
	return nil
}

// Get retrieves a copy of the session from memory.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns all active session IDs in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Sweep removes sessions last touched before now-maxAge.
func (s *Store) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.data {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed, nil
}
