package domain

import (
	"context"
	"io"
	"log/slog"
)

// Status is the position of a module within one run pass.
type Status int

const (
	StatusNotStarted Status = iota // Never begun in this run
	StatusRunning                  // BEGIN processed, END pending
	StatusTerminated               // END processed or terminated early
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusRunning:
		return "running"
	case StatusTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Phase tags a scheduling frame.
type Phase int

const (
	PhaseBegin Phase = iota
	PhaseEnd
)

func (p Phase) String() string {
	if p == PhaseEnd {
		return "end"
	}
	return "begin"
}

// Module is a runtime node produced by building a blueprint.
// Its configuration is immutable once built; runtime bookkeeping
// (status, running child) is owned by the scheduler.
type Module interface {
	Name() string
	Children() []Module

	// Run performs the module's own effect, exclusive of its children.
	Run(ctx context.Context, app App) error
}

// Ender is implemented by modules that need an end-of-life hook.
// It is invoked when the module's END frame is processed.
type Ender interface {
	End(app App)
}

// Blueprint is a configuration template that can be built into a fresh Module.
type Blueprint interface {
	BuildFor(app App) (Module, error)
}

// LineReader is a blocking, line-oriented input source.
type LineReader interface {
	// ReadLine blocks until one line is available and returns it without
	// its trailing newline.
	ReadLine(ctx context.Context) (string, error)
}

// App is the application context a module tree is bound to.
// Exactly one run uses an App at a time.
type App interface {
	Name() string
	Logger() *slog.Logger
	Reader() LineReader
	Writer() io.Writer

	// Input returns the last value recorded under name.
	Input(name string) (any, bool)
	// UpdateInput records value under name, overwriting any prior value.
	UpdateInput(name string, value any)

	// Register binds a module name for later lookup by TerminateChild.
	Register(m Module)
	Lookup(name string) (Module, bool)

	// TerminateChild stops the named module. Requests made while a frame is
	// executing are applied at the next frame boundary.
	TerminateChild(name string) error
	// Terminate stops m itself. Prefer it over TerminateChild when the module
	// is at hand, since names may be shared.
	Terminate(m Module) error
	// RunModuleAsChild schedules a fresh pass of m under its last parent.
	RunModuleAsChild(m Module) error
	// NavigateTo builds target and runs it in place of the invoking module's
	// container's running child, restoring that child once target ends.
	NavigateTo(target Blueprint) error

	CurrentRunningChild(container Module) Module
	Status(m Module) Status

	// Start runs root to completion.
	Start(ctx context.Context, root Module) error

	// Clone returns an App with the same static configuration and fresh
	// runtime state.
	Clone() App
	// Equal reports whether two apps share exit hook and static configuration.
	Equal(other App) bool
}
