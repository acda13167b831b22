package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Store implements ports.InputStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Snapshot),
	}
}

// Save persists the snapshot in memory.
func (s *Store) Save(ctx context.Context, runID string, snap *domain.Snapshot) error {
	// Copy to ensure isolation, similar to serialization
	copied := clone(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[runID] = copied
	return nil
}

// Load retrieves the snapshot from memory.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[runID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}

	// Copy on read so callers can't mutate store state through the pointer
	return clone(snap), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

// List returns the stored run IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]string, 0, len(s.data))
	for id := range s.data {
		runs = append(runs, id)
	}
	return runs, nil
}

func clone(snap *domain.Snapshot) *domain.Snapshot {
	c := &domain.Snapshot{App: snap.App, Inputs: maps.Clone(snap.Inputs)}
	if c.Inputs == nil {
		c.Inputs = make(map[string]any)
	}
	return c
}
