package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/arbor/pkg/ports"
)

// Locker implements ports.RunLocker within one process.
type Locker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

// NewLocker creates a new in-process locker.
func NewLocker() *Locker {
	return &Locker{
		held: make(map[string]chan struct{}),
	}
}

// Lock acquires the lock for runID, waiting for the current holder to release it.
// The ttl is not enforced in memory: a holder in the same process always unlocks.
func (l *Locker) Lock(ctx context.Context, runID string, ttl time.Duration) (ports.UnlockFunc, error) {
	for {
		l.mu.Lock()
		released, busy := l.held[runID]
		if !busy {
			done := make(chan struct{})
			l.held[runID] = done
			l.mu.Unlock()

			var once sync.Once
			return func(context.Context) error {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, runID)
					l.mu.Unlock()
					close(done)
				})
				return nil
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-released:
		}
	}
}
