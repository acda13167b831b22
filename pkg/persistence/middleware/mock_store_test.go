package middleware_test

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/mock"
)

// MockStore records calls so pass-through behavior can be asserted.
type MockStore struct {
	mock.Mock
}

func (s *MockStore) Save(ctx context.Context, runID string, snap *domain.Snapshot) error {
	return s.Called(ctx, runID, snap).Error(0)
}

func (s *MockStore) Load(ctx context.Context, runID string) (*domain.Snapshot, error) {
	args := s.Called(ctx, runID)
	snap, _ := args.Get(0).(*domain.Snapshot)
	return snap, args.Error(1)
}

func (s *MockStore) Delete(ctx context.Context, runID string) error {
	return s.Called(ctx, runID).Error(0)
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	args := s.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

var _ ports.InputStore = (*MockStore)(nil)
