package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates access to a session across replicas of the editor service.
type DistributedLocker interface {
	// Lock acquires the lock for key, blocking until it is held or ctx is done.
	// The lock expires after ttl if never released. The returned UnlockFunc MUST be called.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
