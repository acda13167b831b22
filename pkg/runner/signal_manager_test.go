package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalManager_NotInterrupted(t *testing.T) {
	sm := NewSignalManager(context.Background())
	defer sm.Stop()
	sm.window = 20 * time.Millisecond

	start := time.Now()
	assert.False(t, sm.Interrupted())
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.NoError(t, sm.Context().Err())
}

func TestSignalManager_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	sm := NewSignalManager(parent)
	defer sm.Stop()

	cancel()
	<-sm.Context().Done()
	assert.False(t, sm.Interrupted(), "parent cancellation is not an interrupt")
}

func TestSignalManager_Stop(t *testing.T) {
	sm := NewSignalManager(context.Background())
	sm.Stop()
	assert.ErrorIs(t, sm.Context().Err(), context.Canceled)
}
