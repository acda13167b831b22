//go:build unix

package runner

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalManager_Signal(t *testing.T) {
	sm := NewSignalManager(context.Background())
	defer sm.Stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))
	select {
	case <-sm.Context().Done():
	case <-time.After(2 * time.Second):
		t.Fatal("signal not delivered")
	}
	assert.True(t, sm.Interrupted())
}
