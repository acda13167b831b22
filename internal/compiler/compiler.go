package compiler

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/arbor/internal/dto"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/aretw0/arbor/pkg/style"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyDocument = errors.New("document has no modules")
	ErrMissingID     = errors.New("module missing id")
	ErrDuplicateID   = errors.New("duplicate module id")
	ErrUnknownKind   = errors.New("unknown module kind")
	ErrUnknownRef    = errors.New("unknown module reference")
	ErrNotHandler    = errors.New("module is not a handler")
	ErrSharedHandler = errors.New("handler attached to more than one input")
)

// Compiler turns application documents into builder graphs.
type Compiler struct {
	registry *registry.Registry
	renderer dsl.Renderer
	logger   *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithRegistry sets the registry handler logic is resolved from.
func WithRegistry(r *registry.Registry) Option {
	return func(c *Compiler) {
		c.registry = r
	}
}

// WithRenderer sets the renderer used by "markdown: true" text modules.
// Without one, markdown text is written raw.
func WithRenderer(r dsl.Renderer) Option {
	return func(c *Compiler) {
		c.renderer = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// New creates a compiler using the default registry.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		registry: registry.Default(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parse decodes a YAML document. Unknown keys are rejected so typos surface
// instead of silently dropping configuration.
func (c *Compiler) Parse(data []byte) (*dto.Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	var doc dto.Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

// ParseFile reads and decodes the document at path.
func (c *Compiler) ParseFile(path string) (*dto.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return c.Parse(data)
}

// Compile builds the graph described by doc and returns its root builder.
// The root is doc.Root, or the first module when unset.
func (c *Compiler) Compile(doc *dto.Document) (dsl.Builder, error) {
	if len(doc.Modules) == 0 {
		return nil, ErrEmptyDocument
	}

	builders := make(map[string]dsl.Builder, len(doc.Modules))
	for i, m := range doc.Modules {
		if m.ID == "" {
			return nil, fmt.Errorf("%w (modules[%d])", ErrMissingID, i)
		}
		if _, ok := builders[m.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, m.ID)
		}
		b, err := c.instantiate(m)
		if err != nil {
			return nil, fmt.Errorf("module '%s': %w", m.ID, err)
		}
		builders[m.ID] = b
	}

	// Second pass: every builder exists, so references may point anywhere,
	// including back up the graph.
	owners := make(map[string]string)
	for _, m := range doc.Modules {
		if err := c.wire(m, builders, owners); err != nil {
			return nil, fmt.Errorf("module '%s': %w", m.ID, err)
		}
	}

	rootID := doc.Root
	if rootID == "" {
		rootID = doc.Modules[0].ID
	}
	root, ok := builders[rootID]
	if !ok {
		return nil, fmt.Errorf("root: %w: %s", ErrUnknownRef, rootID)
	}
	c.logger.Debug("document compiled", "name", doc.Name, "root", rootID, "modules", len(builders))
	return root, nil
}

// CompileFile parses and compiles the document at path.
func (c *Compiler) CompileFile(path string) (*dto.Document, dsl.Builder, error) {
	doc, err := c.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	root, err := c.Compile(doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, root, nil
}

func (c *Compiler) instantiate(m dto.Module) (dsl.Builder, error) {
	switch m.Kind {
	case dto.KindContainer, "":
		return dsl.NewContainer(m.ID), nil
	case dto.KindText:
		t := dsl.NewText(m.Content).SetName(m.ID)
		if m.NoNewline {
			t.NoNewline()
		}
		if m.Markdown && c.renderer != nil {
			t.Render(c.renderer)
		}
		return t, nil
	case dto.KindInput:
		return dsl.NewInput(m.ID, m.Prompt), nil
	case dto.KindHandler, dto.KindSafeHandler:
		logic, err := c.registry.Lookup(m.Logic)
		if err != nil {
			return nil, err
		}
		if m.Kind == dto.KindHandler {
			return dsl.NewHandler(m.ID, logic), nil
		}
		onError, err := errorFunc(m)
		if err != nil {
			return nil, err
		}
		return dsl.NewSafeHandler(m.ID, logic, onError), nil
	case dto.KindSelector:
		return dsl.NewSelector(m.ID).Initial(m.Initial), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, m.Kind)
	}
}

func errorFunc(m dto.Module) (dsl.ErrorFunc, error) {
	switch m.OnError {
	case dto.OnErrorReprompt, "":
		return dsl.Reprompt(m.Message), nil
	case dto.OnErrorIgnore:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown on_error policy '%s'", m.OnError)
	}
}

func (c *Compiler) wire(m dto.Module, builders map[string]dsl.Builder, owners map[string]string) error {
	b := builders[m.ID]

	resolve := func(ids []string) ([]dsl.Builder, error) {
		out := make([]dsl.Builder, 0, len(ids))
		for _, id := range ids {
			ref, ok := builders[id]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownRef, id)
			}
			out = append(out, ref)
		}
		return out, nil
	}

	if in, ok := b.(*dsl.Input); ok {
		handlers, err := resolve(m.Handlers)
		if err != nil {
			return err
		}
		for i, h := range handlers {
			handler, ok := h.(*dsl.Handler)
			if !ok {
				return fmt.Errorf("%w: %s", ErrNotHandler, m.Handlers[i])
			}
			if prev, taken := owners[m.Handlers[i]]; taken {
				return fmt.Errorf("%w: %s (inputs '%s' and '%s')", ErrSharedHandler, m.Handlers[i], prev, m.ID)
			}
			owners[m.Handlers[i]] = m.ID
			in.AddHandler(handler)
		}
	}

	if sel, ok := b.(*dsl.Selector); ok {
		scenes, err := resolve(m.Scenes)
		if err != nil {
			return err
		}
		sel.AddScene(scenes...)
	}

	children, err := resolve(m.Children)
	if err != nil {
		return err
	}
	tok, err := style.Parse(m.Style)
	if err != nil {
		return err
	}

	switch v := b.(type) {
	case *dsl.Container:
		decorate(v, tok, m.HardStyle, children)
	case *dsl.Text:
		decorate(v, tok, m.HardStyle, children)
	case *dsl.Input:
		decorate(v, tok, m.HardStyle, children)
	case *dsl.Handler:
		decorate(v, tok, m.HardStyle, children)
	case *dsl.Selector:
		decorate(v, tok, m.HardStyle, children)
	}
	return nil
}

type fluent[T any] interface {
	SetAnsi(tok style.Token) T
	HardSetAnsi(tok style.Token) T
	AddChild(children ...dsl.Builder) T
}

func decorate[T fluent[T]](b T, tok style.Token, hard bool, children []dsl.Builder) {
	if tok != style.None {
		if hard {
			b.HardSetAnsi(tok)
		} else {
			b.SetAnsi(tok)
		}
	}
	if len(children) > 0 {
		b.AddChild(children...)
	}
}
