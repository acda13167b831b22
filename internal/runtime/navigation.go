package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// request is a structural change asked for by module code.
// Requests are queued while a frame executes and applied at the frame boundary,
// so the stack is never mutated while the engine is walking it.
type request struct {
	kind   domain.EventType
	module domain.Module
	target domain.Blueprint
	origin *pass
}

// Terminate stops m: its pending children are dropped, its END still fires,
// and no new BEGIN frame runs for it until Rerun.
func (e *Engine) Terminate(m domain.Module) error {
	if m == nil {
		return fmt.Errorf("cannot terminate nil module")
	}
	if !e.active {
		return domain.ErrNotRunning
	}
	e.pending = append(e.pending, request{kind: domain.EventTerminate, module: m, origin: e.current})
	return nil
}

// Rerun clears m's terminated state and schedules a fresh BEGIN frame for it
// under the parent of its last pass.
func (e *Engine) Rerun(m domain.Module) error {
	if m == nil {
		return fmt.Errorf("cannot rerun nil module")
	}
	if !e.active {
		return domain.ErrNotRunning
	}
	e.pending = append(e.pending, request{kind: domain.EventRerun, module: m, origin: e.current})
	return nil
}

// Navigate builds target and runs it under the invoking module's container.
// The container's running child at the time of the call is restored when the
// target's END frame fires.
func (e *Engine) Navigate(target domain.Blueprint) error {
	if target == nil {
		return fmt.Errorf("cannot navigate to nil target")
	}
	if !e.active {
		return domain.ErrNotRunning
	}
	e.pending = append(e.pending, request{kind: domain.EventNavigate, target: target, origin: e.current})
	return nil
}

// flush applies queued requests in order. Requests pushed later run first.
func (e *Engine) flush(ctx context.Context) error {
	for len(e.pending) > 0 {
		req := e.pending[0]
		e.pending = e.pending[1:]

		switch req.kind {
		case domain.EventTerminate:
			e.terminate(ctx, req.module)
		case domain.EventRerun:
			e.rerun(ctx, req.module)
		case domain.EventNavigate:
			if err := e.navigate(ctx, req); err != nil {
				return err
			}
		}
	}
	e.pending = nil
	return nil
}

func (e *Engine) terminate(ctx context.Context, m domain.Module) {
	e.halted[m] = true
	e.status[m] = domain.StatusTerminated

	var parent *pass
	if p := e.passes[m]; p != nil {
		parent = p.parent
		if !p.ended && !p.cancelled {
			p.cancelled = true
			e.epoch++
		}
	}

	e.logger.Debug("module terminated", "module", m.Name())
	e.emit(ctx, e.hooks.OnTerminate, domain.EventTerminate, m, parent)
}

func (e *Engine) rerun(ctx context.Context, m domain.Module) {
	delete(e.halted, m)
	e.status[m] = domain.StatusNotStarted

	var parent *pass
	if p := e.passes[m]; p != nil {
		parent = p.parent
	}
	e.stack.push(Frame{Module: m, Phase: domain.PhaseBegin, parent: parent})

	e.logger.Debug("module rerun scheduled", "module", m.Name())
	e.emit(ctx, e.hooks.OnRerun, domain.EventRerun, m, parent)
}

func (e *Engine) navigate(ctx context.Context, req request) error {
	from := ""
	var parent *pass
	if req.origin != nil {
		from = req.origin.module.Name()
		parent = req.origin.parent
	}

	target, err := req.target.BuildFor(e.app)
	if err != nil {
		return &NavigationError{From: from, Err: err}
	}

	var displaced domain.Module
	if parent != nil {
		displaced = e.running[parent.module]
	}

	e.stack.push(Frame{
		Module:    target,
		Phase:     domain.PhaseBegin,
		Displaced: displaced,
		parent:    parent,
	})

	e.logger.Debug("navigating", "from", from, "to", target.Name())
	e.emit(ctx, e.hooks.OnNavigate, domain.EventNavigate, target, parent)
	return nil
}
