package arbor

import "context"

// ExitHook is invoked exactly once when a run's stack empties without error.
// Hooks are compared by label, so two independently configured applications
// using the same hook report equal exit behavior.
type ExitHook struct {
	Label string
	Fn    func(ctx context.Context, app *Application) error
}

// Equal reports whether two hooks share a label and both have (or lack) a callback.
func (h ExitHook) Equal(other ExitHook) bool {
	return h.Label == other.Label && (h.Fn == nil) == (other.Fn == nil)
}

// DefaultExitHook logs the end of the run.
var DefaultExitHook = ExitHook{
	Label: "default",
	Fn: func(ctx context.Context, app *Application) error {
		app.Logger().Info("application finished", "inputs", len(app.inputs))
		return nil
	},
}

// NoExitHook does nothing.
var NoExitHook = ExitHook{Label: "none"}
