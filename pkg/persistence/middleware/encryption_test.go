package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/persistence/middleware"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func encrypted(t *testing.T, next ports.InputStore, active []byte, fallback ...[]byte) ports.InputStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
	require.NoError(t, err)
	return mw(next)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunInputStoreContract(t, encrypted(t, memory.NewStore(), generateKey(t)))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := encrypted(t, underlying, generateKey(t))
	ctx := context.Background()

	snap := &domain.Snapshot{App: "bank", Inputs: map[string]any{"secret": "my-secret-sauce"}}
	require.NoError(t, secure.Save(ctx, "run", snap))

	stored, err := underlying.Load(ctx, "run")
	require.NoError(t, err)
	assert.Equal(t, "bank", stored.App)
	assert.NotContains(t, stored.Inputs, "secret")
	assert.Contains(t, stored.Inputs, "__encrypted__")

	loaded, err := secure.Load(ctx, "run")
	require.NoError(t, err)
	assert.Equal(t, "my-secret-sauce", loaded.Inputs["secret"])
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	withOld := encrypted(t, underlying, oldKey)
	require.NoError(t, withOld.Save(ctx, "run", &domain.Snapshot{Inputs: map[string]any{"data": "old"}}))

	withNew := encrypted(t, underlying, newKey, oldKey)
	loaded, err := withNew.Load(ctx, "run")
	require.NoError(t, err)
	assert.Equal(t, "old", loaded.Inputs["data"])

	loaded.Inputs["data"] = "new"
	require.NoError(t, withNew.Save(ctx, "run", loaded))

	_, err = withOld.Load(ctx, "run")
	assert.ErrorIs(t, err, middleware.ErrDecrypt)
}

func TestEncryptionMiddleware_BoundToRunID(t *testing.T) {
	underlying := memory.NewStore()
	secure := encrypted(t, underlying, generateKey(t))
	ctx := context.Background()

	require.NoError(t, secure.Save(ctx, "alice", &domain.Snapshot{Inputs: map[string]any{"pin": "1234"}}))
	envelope, err := underlying.Load(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, underlying.Save(ctx, "mallory", envelope))

	_, err = secure.Load(ctx, "mallory")
	assert.ErrorIs(t, err, middleware.ErrDecrypt)
}

func TestEncryptionMiddleware_RejectsPlainSnapshot(t *testing.T) {
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(context.Background(), "run", &domain.Snapshot{Inputs: map[string]any{"k": "v"}}))

	_, err := encrypted(t, underlying, generateKey(t)).Load(context.Background(), "run")
	assert.ErrorIs(t, err, middleware.ErrMissingEnvelope)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)
}

func TestEncryptionMiddleware_PassThrough(t *testing.T) {
	ctx := context.Background()
	next := new(MockStore)
	next.On("Delete", ctx, "run").Return(nil)
	next.On("List", ctx).Return([]string{"run"}, nil)

	secure := encrypted(t, next, generateKey(t))
	require.NoError(t, secure.Delete(ctx, "run"))
	ids, err := secure.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run"}, ids)

	next.AssertExpectations(t)
}
