package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SignalManager turns SIGINT and SIGTERM into context cancellation for the
// chat loop.
type SignalManager struct {
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager derives a signal-aware context from parent and starts
// listening immediately.
func NewSignalManager(parent context.Context) *SignalManager {
	if parent == nil {
		parent = context.Background()
	}
	sm := &SignalManager{parent: parent}
	sm.Reset()
	return sm
}

// Context returns the current signal context.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Reset re-arms the listener after a signal was handled.
func (sm *SignalManager) Reset() {
	if sm.cancel != nil {
		sm.cancel()
	}
	sm.ctx, sm.cancel = signal.NotifyContext(sm.parent, os.Interrupt, syscall.SIGTERM)
}

// Stop permanently stops the listener.
func (sm *SignalManager) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}

// CheckRace waits briefly for a cancellation that may trail a read error.
// Some terminals deliver EOF on Ctrl+C slightly before the signal itself.
func (sm *SignalManager) CheckRace() {
	if sm.ctx.Err() != nil {
		return
	}
	select {
	case <-sm.ctx.Done():
	case <-time.After(100 * time.Millisecond):
	}
}
