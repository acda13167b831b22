package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// raceWindow bounds how long Interrupted waits for a late signal.
const raceWindow = 100 * time.Millisecond

// SignalManager scopes one run to SIGINT and SIGTERM.
// Some terminals close stdin slightly before the interrupt arrives, so a
// failed run asks Interrupted rather than trusting the error it got.
type SignalManager struct {
	parent context.Context
	ctx    context.Context
	stop   context.CancelFunc
	window time.Duration
}

// NewSignalManager starts listening for signals. Its context is also
// cancelled when parent is.
func NewSignalManager(parent context.Context) *SignalManager {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	return &SignalManager{parent: parent, ctx: ctx, stop: stop, window: raceWindow}
}

// Context returns the run context.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Stop releases the signal listener.
func (sm *SignalManager) Stop() {
	sm.stop()
}

// Interrupted reports whether the run was ended by a signal. It waits up to
// the race window for one to land. Parent cancellation is not an interrupt.
func (sm *SignalManager) Interrupted() bool {
	if sm.ctx.Err() == nil {
		select {
		case <-sm.ctx.Done():
		case <-time.After(sm.window):
		}
	}
	return sm.ctx.Err() != nil && sm.parent.Err() == nil
}
