package http

import (
	"log/slog"
	"sync"
)

// StreamManager fans session diffs out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan []byte]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan []byte]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for sessionID. The returned func
// unregisters and closes it.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan []byte, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan []byte, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan []byte]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			subs := sm.subscribers[sessionID]
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		})
	}
}

// Subscribers returns the number of live subscriptions for sessionID.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Broadcast delivers msg to every subscriber of sessionID. Slow clients with
// a full buffer miss the message.
func (sm *StreamManager) Broadcast(sessionID string, msg []byte) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("sse client buffer full, dropping message", "session_id", sessionID)
		}
	}
}
