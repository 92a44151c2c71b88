package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/richfrem/quoteagent/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "resource1", 5*time.Second)
	require.NoError(t, err)
	require.NotNil(t, unlock)

	assert.True(t, mr.Exists("test:lock:resource1"), "Lock key should be set in Redis")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:resource1"), "Lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	_, client := newClient(t)
	locker1 := redis.NewLocker(client, "test:")
	locker2 := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock1, err := locker1.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)

	shortCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = locker2.Lock(shortCtx, "shared", 5*time.Second)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock1(ctx))

	unlock2, err := locker2.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestRedisLocker_UnlockDoesNotStealForeignLock(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "res", time.Second)
	require.NoError(t, err)

	// The lock expired and someone else took it.
	require.NoError(t, mr.Set("test:lock:res", "other-owner"))

	require.NoError(t, unlock(ctx))
	got, err := mr.Get("test:lock:res")
	require.NoError(t, err)
	assert.Equal(t, "other-owner", got)
}
