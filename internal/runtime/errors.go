package runtime

import (
	"errors"
	"fmt"
)

// ErrPanic marks a module effect that panicked.
var ErrPanic = errors.New("module panicked")

// ModuleError reports a failure raised by a module's own effect.
// It aborts the current run pass.
type ModuleError struct {
	Module string
	Err    error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module '%s' failed: %v", e.Module, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}

// NavigationError reports a navigation target that could not be built.
type NavigationError struct {
	From string
	Err  error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation from '%s' failed: %v", e.From, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}
