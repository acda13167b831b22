package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock acquired with RunLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// RunLocker guards a run ID so that two processes never drive the same
// persisted run at the same time.
type RunLocker interface {
	// Lock blocks until the lock for runID is acquired or ctx is done.
	// The lock expires after ttl if it is never released.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, runID string, ttl time.Duration) (UnlockFunc, error)
}
