package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
)

// Engine is the run-stack scheduler.
// It executes a module tree with an explicit stack of frames instead of
// native recursion, so depth is bounded only by memory and execution can be
// redirected (navigation) without losing the calling context.
//
// An Engine belongs to exactly one application run and is not safe for
// concurrent use.
type Engine struct {
	app    domain.App
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	stack   stack
	pending []request
	current *pass // pass whose effect is executing
	active  bool
	epoch   uint64

	status  map[domain.Module]domain.Status
	running map[domain.Module]domain.Module
	passes  map[domain.Module]*pass // latest pass per module
	halted  map[domain.Module]bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates a scheduler bound to app.
func NewEngine(app domain.App, opts ...EngineOption) *Engine {
	e := &Engine{
		app:     app,
		logger:  logging.NewNop(),
		status:  make(map[domain.Module]domain.Status),
		running: make(map[domain.Module]domain.Module),
		passes:  make(map[domain.Module]*pass),
		halted:  make(map[domain.Module]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start seeds the stack with the root's BEGIN frame and runs until the stack empties.
func (e *Engine) Start(ctx context.Context, root domain.Module) error {
	if root == nil {
		return fmt.Errorf("cannot start: nil root module")
	}
	if e.active {
		return domain.ErrAlreadyRunning
	}
	e.stack.push(Frame{Module: root, Phase: domain.PhaseBegin})
	return e.loop(ctx)
}

// Active reports whether the engine is inside its scheduling loop.
func (e *Engine) Active() bool {
	return e.active
}

// Depth returns the number of frames waiting on the stack.
func (e *Engine) Depth() int {
	return e.stack.len()
}

// Status returns the position of m within the current run.
func (e *Engine) Status(m domain.Module) domain.Status {
	return e.status[m]
}

// RunningChild returns the child most recently begun under container.
func (e *Engine) RunningChild(container domain.Module) domain.Module {
	return e.running[container]
}

func (e *Engine) loop(ctx context.Context) error {
	e.active = true
	defer func() {
		e.active = false
		e.current = nil
	}()

	for {
		if err := ctx.Err(); err != nil {
			e.abort()
			return err
		}

		f, ok := e.stack.pop()
		if !ok {
			return nil
		}

		var err error
		switch f.Phase {
		case domain.PhaseBegin:
			err = e.begin(ctx, f)
		case domain.PhaseEnd:
			e.end(ctx, f)
		}
		if err == nil {
			err = e.flush(ctx)
		}
		if err != nil {
			e.abort()
			return err
		}
	}
}

func (e *Engine) abort() {
	e.stack.reset()
	e.pending = nil
}

// begin runs the module's own effect, then schedules its END beneath its children.
func (e *Engine) begin(ctx context.Context, f Frame) error {
	m := f.Module
	if e.halted[m] {
		e.logger.Debug("skipping halted module", "module", m.Name())
		return nil
	}
	if f.parent != nil && !e.alive(f.parent) {
		e.logger.Debug("skipping module of terminated pass", "module", m.Name(), "parent", f.parent.module.Name())
		return nil
	}

	p := newPass(m, f.parent)
	e.passes[m] = p
	e.status[m] = domain.StatusRunning
	if f.parent != nil {
		e.running[f.parent.module] = m
	}

	e.logger.Debug("module begin", "module", m.Name(), "depth", p.depth)
	e.emit(ctx, e.hooks.OnModuleBegin, domain.EventModuleBegin, m, f.parent)

	e.current = p
	err := e.run(ctx, m)
	e.current = nil
	if err != nil {
		return &ModuleError{Module: m.Name(), Err: err}
	}

	e.stack.push(Frame{
		Module:    m,
		Phase:     domain.PhaseEnd,
		Displaced: f.Displaced,
		parent:    f.parent,
		closes:    p,
	})

	children := m.Children()
	for i := len(children) - 1; i >= 0; i-- {
		e.stack.push(Frame{Module: children[i], Phase: domain.PhaseBegin, parent: p})
	}
	return nil
}

// run executes the module's effect. A panic is reported as an error so the
// run aborts cleanly instead of unwinding through the scheduler.
func (e *Engine) run(ctx context.Context, m domain.Module) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("module panicked", "module", m.Name(), "panic", r)
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return m.Run(ctx, e.app)
}

// end closes a pass. It runs even when the pass was terminated early so that
// displaced children are always restored.
func (e *Engine) end(ctx context.Context, f Frame) {
	m := f.Module
	if f.closes != nil {
		f.closes.ended = true
	}
	if e.passes[m] == f.closes {
		e.status[m] = domain.StatusTerminated
	}
	if f.Displaced != nil && f.parent != nil {
		e.running[f.parent.module] = f.Displaced
	}

	if ender, ok := m.(domain.Ender); ok {
		ender.End(e.app)
	}

	e.logger.Debug("module end", "module", m.Name())
	e.emit(ctx, e.hooks.OnModuleEnd, domain.EventModuleEnd, m, f.parent)
}

// alive reports whether no pass on the chain from p to the root was cancelled.
// Results are cached per cancellation epoch so the common case is O(1).
func (e *Engine) alive(p *pass) bool {
	var path []*pass
	result := true
	for cur := p; cur != nil; cur = cur.parent {
		if cur.checked == e.epoch {
			result = !cur.dead
			break
		}
		path = append(path, cur)
		if cur.cancelled {
			result = false
			break
		}
	}
	for _, q := range path {
		q.checked = e.epoch
		q.dead = !result
	}
	return result
}

func (e *Engine) emit(ctx context.Context, hook func(context.Context, *domain.ModuleEvent), kind domain.EventType, m domain.Module, parent *pass) {
	if hook == nil {
		return
	}
	ev := &domain.ModuleEvent{
		Timestamp: time.Now(),
		Type:      kind,
		Module:    m.Name(),
	}
	if parent != nil {
		ev.Parent = parent.module.Name()
		ev.Depth = parent.depth + 1
	}
	hook(ctx, ev)
}
