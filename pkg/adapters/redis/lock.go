package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/arbor/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// ErrLockAcquire is returned when Redis fails while acquiring a lock.
var ErrLockAcquire = errors.New("failed to acquire run lock")

// pollInterval is the delay between acquisition attempts on a busy lock.
const pollInterval = 100 * time.Millisecond

// releaseScript deletes the lock only if the caller still holds it.
var releaseScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker implements ports.RunLocker using Redis.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a new Redis locker. An empty prefix uses DefaultPrefix.
func NewLocker(client *backend.Client, prefix string) *Locker {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Locker{
		client: client,
		prefix: prefix,
	}
}

// Lock acquires the lock for runID using SET NX PX, polling until it is free
// or ctx is done.
func (l *Locker) Lock(ctx context.Context, runID string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + runID
	// Holder token, checked on release so an expired holder cannot free a newer lock.
	token := fmt.Sprintf("%d", time.Now().UnixNano())

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w: %v", ErrLockAcquire, err)
		}
		if ok {
			return func(ctx context.Context) error {
				return releaseScript.Run(ctx, l.client, []string{lockKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
