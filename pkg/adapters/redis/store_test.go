package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunInputStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	runID := "run-ttl"

	err := store.Save(ctx, runID, &domain.Snapshot{App: "ttl", Inputs: map[string]any{"foo": "bar"}})
	require.NoError(t, err)

	runs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, runs, runID)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, runID)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	// The index is pruned against the wall clock, which FastForward does not move.
	time.Sleep(1200 * time.Millisecond)

	runs, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, "my-run", &domain.Snapshot{App: "p"})
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:my-run"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, "my-run")
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, store.Save(context.Background(), "r1", &domain.Snapshot{App: "d"}))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"r1"))
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"bad", "{not json"))
	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSnapshotNotFound)
}
