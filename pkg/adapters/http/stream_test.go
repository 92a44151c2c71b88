package http

import (
	"testing"

	"github.com/richfrem/quoteagent/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager(logging.NewNop())

	ch, cancel := sm.Subscribe("s1")
	assert.Equal(t, 1, sm.Subscribers("s1"))

	sm.Broadcast("s1", []byte("hello"))
	sm.Broadcast("s2", []byte("ignored"))
	assert.Equal(t, "hello", string(<-ch))

	for i := 0; i < 20; i++ {
		sm.Broadcast("s1", []byte("flood"))
	}
	assert.Len(t, ch, cap(ch), "excess messages are dropped")

	cancel()
	cancel()
	assert.Equal(t, 0, sm.Subscribers("s1"))
}
