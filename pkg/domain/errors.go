package domain

import (
	"errors"
	"fmt"
)

// ErrInputAbsent is returned when no value was ever recorded under a name.
var ErrInputAbsent = errors.New("input not recorded")

// ErrTypeMismatch is returned when a stored input cannot be viewed as the requested type.
var ErrTypeMismatch = errors.New("input type mismatch")

// ErrUnknownModule is returned when a name does not resolve to a live module.
var ErrUnknownModule = errors.New("unknown module")

// ErrNotRunning is returned when a runtime request is made outside of a run.
var ErrNotRunning = errors.New("application is not running")

// ErrAlreadyRunning is returned when an application is started twice concurrently.
var ErrAlreadyRunning = errors.New("application is already running")

// ErrNoApplication is returned when a builder is built without an application.
var ErrNoApplication = errors.New("no application bound")

// ErrNoScenes is returned when a selector is built without any scene.
var ErrNoScenes = errors.New("selector has no scenes")

// ErrUnknownScene is returned when a selector is asked for a scene it does not hold.
var ErrUnknownScene = errors.New("unknown scene")

// ErrDetachedHandler is returned when a handler is built outside of an input module.
var ErrDetachedHandler = errors.New("handler is not attached to an input")

// ErrUnnamed is returned when a module kind that records values has no name.
var ErrUnnamed = errors.New("module requires a name")

// ErrSnapshotNotFound is returned when a run ID cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// StructureError reports a builder graph that cannot be built.
type StructureError struct {
	Builder string
	Err     error
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("cannot build '%s': %v", e.Builder, e.Err)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}
