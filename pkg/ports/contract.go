package ports

import (
	"context"
	"testing"
	"time"

	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Put and Get", func(t *testing.T) {
		s := domain.NewSession(sessionID)
		s.CurrentNodeID = "property_type"
		s.Record("Is this an emergency?", "No", "is_emergency")
		s.ProcessedMessageCount = 1

		require.NoError(t, store.Put(ctx, s), "Put should not return error")

		loaded, err := store.Get(ctx, sessionID)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, "property_type", loaded.CurrentNodeID)
		assert.Equal(t, "No", loaded.Captured["is_emergency"])
		assert.Equal(t, 1, loaded.ProcessedMessageCount)
		require.Len(t, loaded.Answers, 1)
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		s := domain.NewSession(sessionID)
		s.Captured["service_type"] = "Drains"
		require.NoError(t, store.Put(ctx, s))

		loaded, err := store.Get(ctx, sessionID)
		require.NoError(t, err)
		loaded.Captured["service_type"] = "mutated"

		again, err := store.Get(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "Drains", again.Captured["service_type"])
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, domain.NewSession(sessionID)))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Get(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Get after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Put(ctx, domain.NewSession(id1)))
		require.NoError(t, store.Put(ctx, domain.NewSession(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})

	t.Run("Sweep", func(t *testing.T) {
		staleID := sessionID + "-stale"
		freshID := sessionID + "-fresh"

		stale := domain.NewSession(staleID)
		stale.UpdatedAt = time.Now().Add(-2 * time.Hour)
		require.NoError(t, store.Put(ctx, stale))
		require.NoError(t, store.Put(ctx, domain.NewSession(freshID)))
		defer func() { _ = store.Delete(ctx, freshID) }()

		removed, err := store.Sweep(ctx, time.Hour)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, removed, 1)

		_, err = store.Get(ctx, staleID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "stale session should be swept")

		_, err = store.Get(ctx, freshID)
		assert.NoError(t, err, "fresh session should survive the sweep")
	})
}
