package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/dsl"
)

// ErrInterrupted is returned when a run is stopped by SIGINT or SIGTERM.
var ErrInterrupted = errors.New("interrupted")

// DefaultQuitCommands end the input stream when typed at a prompt.
var DefaultQuitCommands = []string{"exit", "quit"}

// Runner drives a module tree against a terminal: it owns the line reader,
// wires signal handling into the run context and turns end of input into a
// clean exit.
type Runner struct {
	Logger *slog.Logger

	input       io.Reader
	output      io.Writer
	lineTimeout time.Duration
	quit        []string
	appOptions  []arbor.Option

	app *arbor.Application
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger handed to the application.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInput sets the line source (default os.Stdin).
func WithInput(in io.Reader) Option {
	return func(r *Runner) {
		r.input = in
	}
}

// WithOutput sets the output writer (default os.Stdout).
func WithOutput(out io.Writer) Option {
	return func(r *Runner) {
		r.output = out
	}
}

// WithTimeout bounds how long each prompt waits for a line.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.lineTimeout = d
	}
}

// WithQuit replaces DefaultQuitCommands. No words disables quitting by command.
func WithQuit(words ...string) Option {
	return func(r *Runner) {
		r.quit = words
	}
}

// WithAppOptions adds application options (store, locker, metrics, hooks).
// They are applied after the runner's own I/O options and can override them.
func WithAppOptions(opts ...arbor.Option) Option {
	return func(r *Runner) {
		r.appOptions = append(r.appOptions, opts...)
	}
}

// NewRunner creates a runner over stdin and stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
		input:  os.Stdin,
		output: os.Stdout,
		quit:   DefaultQuitCommands,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// App returns the application of the last Run.
func (r *Runner) App() *arbor.Application {
	return r.app
}

// Run builds root into a fresh application and runs it to completion.
// Closing the input (or typing a quit command) ends the run without error;
// a signal ends it with ErrInterrupted.
func (r *Runner) Run(ctx context.Context, root dsl.Builder) error {
	sm := NewSignalManager(ctx)
	defer sm.Stop()

	reader := NewTextReader(r.input,
		WithFeedback(r.output),
		WithLineTimeout(r.lineTimeout),
		WithQuitCommands(r.quit...),
	)
	defer reader.Close()

	opts := []arbor.Option{
		arbor.WithLogger(r.Logger),
		arbor.WithReader(reader),
		arbor.WithWriter(r.output),
	}
	r.app = arbor.New(append(opts, r.appOptions...)...)

	mod, err := dsl.BuildFor(root, r.app)
	if err != nil {
		return err
	}

	err = r.app.Start(sm.Context(), mod)
	if err == nil {
		return nil
	}

	if sm.Interrupted() {
		r.Logger.Info("run interrupted", "app", r.app.Name())
		return ErrInterrupted
	}
	if errors.Is(err, io.EOF) {
		r.Logger.Info("input closed", "app", r.app.Name())
		return nil
	}
	return err
}
