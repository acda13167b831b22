package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunInputStoreContract runs a suite of tests to verify that an InputStore
// implementation adheres to the defined interface contract.
func RunInputStoreContract(t *testing.T, store InputStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := &domain.Snapshot{
			App: "contract",
			Inputs: map[string]any{
				"name":  "Ada",
				"count": 42,
			},
		}

		err := store.Save(ctx, runID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "contract", loaded.App)
		assert.Equal(t, "Ada", loaded.Inputs["name"])
		// Serializing stores may turn ints into floats; only presence is part of the contract.
		assert.NotNil(t, loaded.Inputs["count"])
	})

	t.Run("Save Isolates Snapshot", func(t *testing.T) {
		snap := &domain.Snapshot{App: "contract", Inputs: map[string]any{"k": "before"}}
		require.NoError(t, store.Save(ctx, runID, snap))

		snap.Inputs["k"] = "after"

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, "before", loaded.Inputs["k"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, runID, &domain.Snapshot{App: "contract"})
		require.NoError(t, err)

		err = store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, id1, &domain.Snapshot{App: "contract"})
		_ = store.Save(ctx, id2, &domain.Snapshot{App: "contract"})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}
