package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes turns on one session across API replicas
// that share a session store. session.Manager takes it after its
// in-process lock.
type DistributedLocker interface {
	// Lock blocks until key (a session id) is held or ctx is done. The lock
	// expires after ttl if the holder dies mid-turn; callers must still
	// release it with the returned UnlockFunc.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
