package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/richfrem/quoteagent/internal/logging"
	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/richfrem/quoteagent/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock is held if the holder dies.
const DefaultLockTTL = 30 * time.Second

// InitFunc prepares a freshly created session (typically by asking the first question).
type InitFunc func(ctx context.Context, s *domain.Session)

// MutateFunc changes a session in place. Returning an error aborts the update.
type MutateFunc func(ctx context.Context, s *domain.Session) error

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock expiry.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var s *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		s, err = m.store.Get(ctx, sessionID)
		return err
	})
	return s, err
}

// GetOrCreate returns the stored session or creates, initializes and persists
// a new one. Concurrent calls for the same unseen id converge on one session.
func (m *Manager) GetOrCreate(ctx context.Context, sessionID string, init InitFunc) (*domain.Session, error) {
	var s *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var created bool
		var err error
		s, created, err = m.getOrCreate(ctx, sessionID, init)
		if err != nil || !created {
			return err
		}
		return m.put(ctx, s)
	})
	return s, err
}

// Update loads (or creates) the session, applies mutate and persists the
// result, all while holding the session lock.
func (m *Manager) Update(ctx context.Context, sessionID string, init InitFunc, mutate MutateFunc) (*domain.Session, error) {
	var s *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		s, _, err = m.getOrCreate(ctx, sessionID, init)
		if err != nil {
			return err
		}
		if err := mutate(ctx, s); err != nil {
			return err
		}
		return m.put(ctx, s)
	})
	return s, err
}

func (m *Manager) getOrCreate(ctx context.Context, sessionID string, init InitFunc) (*domain.Session, bool, error) {
	s, err := m.store.Get(ctx, sessionID)
	if err == nil {
		return s, false, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, false, fmt.Errorf("failed to check session existence: %w", err)
	}

	s = domain.NewSession(sessionID)
	if init != nil {
		init(ctx, s)
	}
	m.logger.Debug("session created", "session_id", sessionID)
	return s, true, nil
}

func (m *Manager) put(ctx context.Context, s *domain.Session) error {
	s.UpdatedAt = time.Now()
	if err := m.store.Put(ctx, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Reset removes the session, discarding all progress.
func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// Sweep removes sessions idle for longer than maxAge.
func (m *Manager) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	removed, err := m.store.Sweep(ctx, maxAge)
	if err != nil {
		return removed, fmt.Errorf("failed to sweep sessions: %w", err)
	}
	if removed > 0 {
		m.logger.Info("swept idle sessions", "removed", removed, "max_age", maxAge)
	}
	return removed, nil
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	if sessionID == "" {
		return domain.ErrMissingSessionID
	}

	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
