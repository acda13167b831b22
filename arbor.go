package arbor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
)

// Version is the library version reported by the CLI.
const Version = "0.4.0"

// Application is the context shared by every module of one run.
// It holds captured input values, the module name registry, the exit hook and
// the scheduler of the current run. An Application must not be shared by two
// runs at the same time.
type Application struct {
	name    string
	logger  *slog.Logger
	reader  domain.LineReader
	writer  io.Writer
	exit    ExitHook
	store   ports.InputStore
	locker  ports.RunLocker
	lockTTL time.Duration
	runID   string
	hooks   domain.LifecycleHooks
	metrics *observability.Metrics

	inputs map[string]any
	names  map[string]domain.Module
	root   domain.Module
	engine *runtime.Engine
}

// Option defines a functional option for configuring the Application.
type Option func(*Application)

// WithName sets the application name.
func WithName(name string) Option {
	return func(a *Application) {
		a.name = name
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) {
		a.logger = logger
	}
}

// WithReader sets the default input source for modules that were not given one.
func WithReader(r domain.LineReader) Option {
	return func(a *Application) {
		a.reader = r
	}
}

// WithInput is a shortcut for WithReader(NewLineReader(r)).
func WithInput(r io.Reader) Option {
	return func(a *Application) {
		a.reader = NewLineReader(r)
	}
}

// WithWriter sets the default output sink for modules that were not given one.
func WithWriter(w io.Writer) Option {
	return func(a *Application) {
		a.writer = w
	}
}

// WithExitHook sets the callback invoked once a run completes.
func WithExitHook(hook ExitHook) Option {
	return func(a *Application) {
		a.exit = hook
	}
}

// WithStore enables persistence of captured inputs.
// Inputs are restored when a run starts and saved when it completes.
func WithStore(store ports.InputStore) Option {
	return func(a *Application) {
		a.store = store
	}
}

// WithLocker serializes runs that share a run ID. The lock is held for the
// whole run and expires after ttl if the process dies while holding it.
func WithLocker(locker ports.RunLocker, ttl time.Duration) Option {
	return func(a *Application) {
		a.locker = locker
		a.lockTTL = ttl
	}
}

// WithRunID sets the key under which inputs are persisted (default: the application name).
func WithRunID(id string) Option {
	return func(a *Application) {
		a.runID = id
	}
}

// WithLifecycleHooks registers scheduler observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Application) {
		a.hooks = hooks
	}
}

// WithMetrics records scheduler activity into Prometheus collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Application) {
		a.metrics = m
	}
}

// New creates an Application. Without options it reads from os.Stdin,
// writes to os.Stdout, discards logs and uses DefaultExitHook.
func New(opts ...Option) *Application {
	a := &Application{
		name: "arbor",
		exit: DefaultExitHook,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if a.reader == nil {
		a.reader = NewLineReader(os.Stdin)
	}
	if a.writer == nil {
		a.writer = os.Stdout
	}
	a.logger = a.logger.With("app", a.name)
	a.reset()
	return a
}

func (a *Application) reset() {
	a.inputs = make(map[string]any)
	a.names = make(map[string]domain.Module)
	a.root = nil
	a.engine = nil
}

// Name returns the application name.
func (a *Application) Name() string {
	return a.name
}

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

// Reader returns the default input source.
func (a *Application) Reader() domain.LineReader {
	return a.reader
}

// Writer returns the default output sink.
func (a *Application) Writer() io.Writer {
	return a.writer
}

// ExitHook returns the configured exit hook.
func (a *Application) ExitHook() ExitHook {
	return a.exit
}

// Root returns the module tree of the last run.
func (a *Application) Root() domain.Module {
	return a.root
}

// Run builds bp into this application and starts it.
func (a *Application) Run(ctx context.Context, bp domain.Blueprint) error {
	root, err := bp.BuildFor(a)
	if err != nil {
		return err
	}
	return a.Start(ctx, root)
}

// Start runs root to completion on a fresh scheduler.
// A failure raised by a module effect aborts the run and is returned;
// the exit hook only fires for runs that complete.
func (a *Application) Start(ctx context.Context, root domain.Module) error {
	if a.engine != nil && a.engine.Active() {
		return domain.ErrAlreadyRunning
	}
	if root == nil {
		return fmt.Errorf("cannot start '%s': nil root module", a.name)
	}

	if a.locker != nil {
		unlock, err := a.locker.Lock(ctx, a.key(), a.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to lock run '%s': %w", a.key(), err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				a.logger.Warn("failed to release run lock", "run_id", a.key(), "err", err)
			}
		}()
	}

	if err := a.restore(ctx); err != nil {
		return err
	}

	hooks := a.hooks
	if a.metrics != nil {
		hooks = observability.Chain(hooks, a.metrics.Hooks())
	}

	a.root = root
	a.engine = runtime.NewEngine(a,
		runtime.WithLogger(a.logger),
		runtime.WithLifecycleHooks(hooks),
	)

	a.logger.Debug("run started", "root", root.Name())
	if err := a.engine.Start(ctx, root); err != nil {
		a.logger.Error("run aborted", "root", root.Name(), "err", err)
		return err
	}

	if err := a.persist(ctx); err != nil {
		return err
	}

	if a.exit.Fn != nil {
		if err := a.exit.Fn(ctx, a); err != nil {
			return fmt.Errorf("exit hook '%s' failed: %w", a.exit.Label, err)
		}
	}
	return nil
}

// Input returns the last value recorded under name.
func (a *Application) Input(name string) (any, bool) {
	v, ok := a.inputs[name]
	return v, ok
}

// UpdateInput records value under name. Last write wins.
func (a *Application) UpdateInput(name string, value any) {
	a.inputs[name] = value
}

// Inputs returns a copy of every recorded value.
func (a *Application) Inputs() map[string]any {
	return maps.Clone(a.inputs)
}

// Register binds m's name for lookup. A later registration under the same
// name replaces the earlier one.
func (a *Application) Register(m domain.Module) {
	a.names[m.Name()] = m
}

// Lookup returns the module registered under name.
func (a *Application) Lookup(name string) (domain.Module, bool) {
	m, ok := a.names[name]
	return m, ok
}

// TerminateChild stops the named module at the next frame boundary.
func (a *Application) TerminateChild(name string) error {
	m, ok := a.names[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownModule, name)
	}
	if a.engine == nil {
		return domain.ErrNotRunning
	}
	return a.engine.Terminate(m)
}

// Terminate stops m at the next frame boundary.
func (a *Application) Terminate(m domain.Module) error {
	if a.engine == nil {
		return domain.ErrNotRunning
	}
	return a.engine.Terminate(m)
}

// RunModuleAsChild schedules a fresh pass of m.
func (a *Application) RunModuleAsChild(m domain.Module) error {
	if a.engine == nil {
		return domain.ErrNotRunning
	}
	return a.engine.Rerun(m)
}

// NavigateTo runs target in place of the invoking module's container's
// running child; that child is restored once target ends.
func (a *Application) NavigateTo(target domain.Blueprint) error {
	if a.engine == nil {
		return domain.ErrNotRunning
	}
	return a.engine.Navigate(target)
}

// CurrentRunningChild returns the child most recently begun under container.
func (a *Application) CurrentRunningChild(container domain.Module) domain.Module {
	if a.engine == nil {
		return nil
	}
	return a.engine.RunningChild(container)
}

// Status returns m's position within the current run.
func (a *Application) Status(m domain.Module) domain.Status {
	if a.engine == nil {
		return domain.StatusNotStarted
	}
	return a.engine.Status(m)
}

// Clone returns an Application with the same static configuration and no
// runtime state.
func (a *Application) Clone() domain.App {
	c := *a
	c.reset()
	return &c
}

// Equal reports whether other has the same exit hook and static configuration.
// Captured inputs are not compared.
func (a *Application) Equal(other domain.App) bool {
	o, ok := other.(*Application)
	if !ok || o == nil {
		return false
	}
	if a == o {
		return true
	}
	return a.name == o.name && a.runID == o.runID && a.exit.Equal(o.exit)
}

func (a *Application) key() string {
	if a.runID != "" {
		return a.runID
	}
	return a.name
}

func (a *Application) restore(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	snap, err := a.store.Load(ctx, a.key())
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore inputs: %w", err)
	}
	for k, v := range snap.Inputs {
		if _, ok := a.inputs[k]; !ok {
			a.inputs[k] = v
		}
	}
	a.logger.Debug("inputs restored", "run_id", a.key(), "count", len(snap.Inputs))
	return nil
}

func (a *Application) persist(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	snap := &domain.Snapshot{App: a.name, Inputs: a.Inputs()}
	if err := a.store.Save(ctx, a.key(), snap); err != nil {
		return fmt.Errorf("failed to persist inputs: %w", err)
	}
	a.logger.Debug("inputs saved", "run_id", a.key(), "count", len(snap.Inputs))
	return nil
}
