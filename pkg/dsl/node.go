package dsl

import (
	"io"
	"slices"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/style"
)

// Node is the configuration shared by every builder kind.
type Node struct {
	name      string
	children  []Builder
	style     style.Token
	hardStyle bool
	reader    domain.LineReader
	writer    io.Writer
	app       domain.App
}

// Name returns the configured module name.
func (n *Node) Name() string {
	return n.name
}

// Children returns a copy of the ordered child sequence.
func (n *Node) Children() []Builder {
	return slices.Clone(n.children)
}

// Style returns the attached control token.
func (n *Node) Style() style.Token {
	return n.style
}

// HardStyled reports whether the style was set with HardSetAnsi.
func (n *Node) HardStyled() bool {
	return n.hardStyle
}

// Application returns the bound application, if any.
func (n *Node) Application() domain.App {
	return n.app
}

// Fluent carries the common configuration of a builder and implements its
// fluent setters. T is the concrete builder type embedding it, so that every
// setter returns the concrete kind:
//
//	dsl.NewText("hi").SetName("greet").SetAnsi(style.Bold) // *Text
type Fluent[T any] struct {
	node Node
	self T
}

func (f *Fluent[T]) init(self T, name string) {
	f.self = self
	f.node.name = name
}

// Node exposes the common configuration.
func (f *Fluent[T]) Node() *Node {
	return &f.node
}

// SetName sets the module name. Names should be unique within one build;
// duplicates are logged, never rejected.
func (f *Fluent[T]) SetName(name string) T {
	f.node.name = name
	return f.self
}

// AddChild appends children to the ordered child sequence.
// A builder may be the child of more than one parent.
func (f *Fluent[T]) AddChild(children ...Builder) T {
	f.node.children = append(f.node.children, children...)
	return f.self
}

// Children replaces the ordered child sequence.
func (f *Fluent[T]) Children(children ...Builder) T {
	f.node.children = slices.Clone(children)
	return f.self
}

// ClearChildren removes every child.
func (f *Fluent[T]) ClearChildren() T {
	f.node.children = nil
	return f.self
}

// SetAnsi attaches a control token unless one was hard-set before.
func (f *Fluent[T]) SetAnsi(tok style.Token) T {
	if !f.node.hardStyle {
		f.node.style = tok
	}
	return f.self
}

// HardSetAnsi attaches a control token that later SetAnsi calls cannot replace.
func (f *Fluent[T]) HardSetAnsi(tok style.Token) T {
	f.node.style = tok
	f.node.hardStyle = true
	return f.self
}

// SetApplication binds the application the builder is built into.
func (f *Fluent[T]) SetApplication(app domain.App) T {
	f.node.app = app
	return f.self
}

// SetInput injects the input source (default: the application's reader).
func (f *Fluent[T]) SetInput(r domain.LineReader) T {
	f.node.reader = r
	return f.self
}

// SetOutput injects the output sink (default: the application's writer).
func (f *Fluent[T]) SetOutput(w io.Writer) T {
	f.node.writer = w
	return f.self
}

// GetCopy returns a deep copy of the graph rooted at this builder.
func (f *Fluent[T]) GetCopy() T {
	return any(Copy(f.builder())).(T)
}

// Build builds the graph into the bound application.
func (f *Fluent[T]) Build() (domain.Module, error) {
	return Build(f.builder())
}

// BuildFor builds the graph into app.
func (f *Fluent[T]) BuildFor(app domain.App) (domain.Module, error) {
	return BuildFor(f.builder(), app)
}

func (f *Fluent[T]) builder() Builder {
	return any(f.self).(Builder)
}
