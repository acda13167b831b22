package dsl

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/arbor/pkg/domain"
)

// Input renders a prompt, blocks for one line on its input source, records the
// line under its own name and then runs its handlers in registration order.
type Input struct {
	Fluent[*Input]
	prompt *Text
}

// NewInput creates an input builder. An empty prompt displays nothing.
func NewInput(name, prompt string) *Input {
	in := &Input{}
	if prompt != "" {
		in.prompt = NewText(prompt)
	}
	in.init(in, name)
	return in
}

// Prompt replaces the prompt display module.
func (in *Input) Prompt(prompt *Text) *Input {
	in.prompt = prompt
	return in
}

// PromptText returns the prompt display builder, if any.
func (in *Input) PromptText() *Text {
	return in.prompt
}

// AddHandler attaches handlers to this input and appends them as children.
func (in *Input) AddHandler(handlers ...*Handler) *Input {
	for _, h := range handlers {
		h.owner = in
		in.node.children = append(in.node.children, h)
	}
	return in
}

// ShallowStructuralEquals implements Builder.
func (in *Input) ShallowStructuralEquals(other Builder) bool {
	o, ok := other.(*Input)
	return ok && (in.prompt == nil) == (o.prompt == nil)
}

func (in *Input) clone() Builder {
	return NewInput("", "")
}

func (in *Input) refs() []Builder {
	if in.prompt == nil {
		return nil
	}
	return []Builder{in.prompt}
}

func (in *Input) relink(c *copier, src Builder) {
	if p := src.(*Input).prompt; p != nil {
		in.prompt = c.builder(p).(*Text)
	}
}

func (in *Input) instantiate(*buildContext) (module, error) {
	if in.node.name == "" {
		return nil, domain.ErrUnnamed
	}
	return &inputModule{}, nil
}

func (in *Input) link(bc *buildContext, m module) error {
	if in.prompt == nil {
		return nil
	}
	pm, err := bc.module(in.prompt)
	if err != nil {
		return err
	}
	// A prompt without its own sink writes where its input does.
	if in.prompt.node.writer == nil {
		pm.base().writer = m.base().writer
	}
	m.(*inputModule).prompt = pm
	return nil
}

type inputModule struct {
	moduleBase
	prompt domain.Module
}

func (m *inputModule) Run(ctx context.Context, app domain.App) error {
	if m.prompt != nil {
		if err := m.prompt.Run(ctx, app); err != nil {
			return err
		}
	}
	line, err := m.reader.ReadLine(ctx)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	app.UpdateInput(m.name, line)
	return nil
}

// HandlerFunc is logic over the line captured by the owning input.
// A non-nil result is recorded under the handler's name.
type HandlerFunc func(ctx context.Context, app domain.App, line string) (any, error)

// Failure describes a contained safe handler failure.
type Failure struct {
	App     domain.App
	Handler domain.Module
	Input   domain.Module
	Writer  io.Writer
	Err     error
}

// ErrorFunc is invoked with a contained safe handler failure.
type ErrorFunc func(ctx context.Context, f *Failure) error

// Handler runs logic after its owning input captured a line.
// A plain handler's failure aborts the run pass; a safe handler's failure is
// contained and passed to its error callback.
type Handler struct {
	Fluent[*Handler]
	logic   HandlerFunc
	safe    bool
	onError ErrorFunc
	owner   *Input
}

// NewHandler creates a handler whose failures propagate.
func NewHandler(name string, logic HandlerFunc) *Handler {
	h := &Handler{logic: logic}
	h.init(h, name)
	return h
}

// NewSafeHandler creates a handler whose failures are contained and passed to onError.
func NewSafeHandler(name string, logic HandlerFunc, onError ErrorFunc) *Handler {
	h := &Handler{logic: logic, safe: true, onError: onError}
	h.init(h, name)
	return h
}

// Safe reports whether failures are contained.
func (h *Handler) Safe() bool {
	return h.safe
}

// Owner returns the input this handler is attached to.
func (h *Handler) Owner() *Input {
	return h.owner
}

// ShallowStructuralEquals implements Builder.
func (h *Handler) ShallowStructuralEquals(other Builder) bool {
	o, ok := other.(*Handler)
	return ok && h.safe == o.safe && sameFunc(h.logic, o.logic) && sameFunc(h.onError, o.onError) &&
		(h.owner == nil) == (o.owner == nil)
}

func (h *Handler) clone() Builder {
	c := &Handler{logic: h.logic, safe: h.safe, onError: h.onError}
	c.init(c, "")
	return c
}

func (h *Handler) refs() []Builder {
	if h.owner == nil {
		return nil
	}
	return []Builder{h.owner}
}

func (h *Handler) relink(c *copier, src Builder) {
	if owner := src.(*Handler).owner; owner != nil {
		h.owner = c.builder(owner).(*Input)
	}
}

func (h *Handler) instantiate(*buildContext) (module, error) {
	if h.owner == nil {
		return nil, domain.ErrDetachedHandler
	}
	return &handlerModule{logic: h.logic, safe: h.safe, onError: h.onError}, nil
}

func (h *Handler) link(bc *buildContext, m module) error {
	owner, err := bc.module(h.owner)
	if err != nil {
		return err
	}
	if h.node.writer == nil {
		m.base().writer = owner.base().writer
	}
	m.(*handlerModule).owner = owner
	return nil
}

type handlerModule struct {
	moduleBase
	logic   HandlerFunc
	safe    bool
	onError ErrorFunc
	owner   domain.Module
}

func (m *handlerModule) Run(ctx context.Context, app domain.App) error {
	line := ""
	if v, ok := app.Input(m.owner.Name()); ok {
		if s, isString := v.(string); isString {
			line = s
		} else {
			line = fmt.Sprint(v)
		}
	}

	if !m.safe {
		return m.apply(ctx, app, line)
	}

	err := m.contain(ctx, app, line)
	if err == nil {
		return nil
	}
	app.Logger().Debug("handler failure contained", "module", m.name, "input", m.owner.Name(), "err", err)
	if m.onError == nil {
		return nil
	}
	return m.onError(ctx, &Failure{
		App:     app,
		Handler: m,
		Input:   m.owner,
		Writer:  m.writer,
		Err:     err,
	})
}

func (m *handlerModule) apply(ctx context.Context, app domain.App, line string) error {
	if m.logic == nil {
		return nil
	}
	result, err := m.logic(ctx, app, line)
	if err != nil {
		return err
	}
	if result != nil && m.name != "" {
		app.UpdateInput(m.name, result)
	}
	return nil
}

// contain runs the logic, turning a panic into an error.
func (m *handlerModule) contain(ctx context.Context, app domain.App, line string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return m.apply(ctx, app, line)
}

// Reprompt returns the conventional safe handler callback: it prints message,
// terminates the owning input and runs it again, so invalid input loops back
// to the prompt instead of aborting the run.
func Reprompt(message string) ErrorFunc {
	return func(ctx context.Context, f *Failure) error {
		if message != "" {
			if _, err := fmt.Fprintln(f.Writer, message); err != nil {
				return err
			}
		}
		if err := f.App.Terminate(f.Input); err != nil {
			return err
		}
		return f.App.RunModuleAsChild(f.Input)
	}
}
