package dsl

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Logic is user code executed as a module's own effect.
type Logic func(ctx context.Context, app domain.App) error

// Func runs user logic. It is the usual place to call NavigateTo,
// TerminateChild or RunModuleAsChild.
type Func struct {
	Fluent[*Func]
	logic Logic
}

// NewFunc creates a function builder.
func NewFunc(name string, logic Logic) *Func {
	f := &Func{logic: logic}
	f.init(f, name)
	return f
}

// ShallowStructuralEquals implements Builder.
func (f *Func) ShallowStructuralEquals(other Builder) bool {
	o, ok := other.(*Func)
	return ok && sameFunc(f.logic, o.logic)
}

func (f *Func) clone() Builder {
	return NewFunc("", f.logic)
}

func (f *Func) refs() []Builder { return nil }

func (f *Func) relink(*copier, Builder) {}

func (f *Func) instantiate(*buildContext) (module, error) {
	return &funcModule{logic: f.logic}, nil
}

func (f *Func) link(*buildContext, module) error { return nil }

type funcModule struct {
	moduleBase
	logic Logic
}

func (m *funcModule) Run(ctx context.Context, app domain.App) error {
	if m.logic == nil {
		return nil
	}
	return m.logic(ctx, app)
}
