package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// InputStore persists the values an application captured during a run.
// This allows a later run with the same run ID to start with the answers
// already recorded, e.g. resuming a questionnaire after a restart.
type InputStore interface {
	// Save persists the snapshot for a given run ID, replacing any previous one.
	Save(ctx context.Context, runID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given run ID.
	// Returns domain.ErrSnapshotNotFound if the run ID does not exist.
	Load(ctx context.Context, runID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given run ID.
	Delete(ctx context.Context, runID string) error

	// List returns the run IDs that currently have a snapshot.
	List(ctx context.Context) ([]string, error)
}
