package dsl

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// Builder is a configuration-time template for a module.
// The set of kinds is closed: Text, Func, Container, Input, Handler and Selector.
type Builder interface {
	domain.Blueprint

	// Node exposes the configuration shared by every kind.
	Node() *Node
	// ShallowStructuralEquals compares the kind-specific configuration of two
	// builders. Children and referenced builders are compared by StructuralEquals.
	ShallowStructuralEquals(other Builder) bool

	// clone returns a fresh builder with kind-specific values copied and an empty Node.
	clone() Builder
	// refs lists kind-specific builder references, in a stable order.
	refs() []Builder
	// relink points a clone's kind-specific references at their copies.
	relink(c *copier, src Builder)
	// instantiate creates the runtime module; children are linked afterwards.
	instantiate(bc *buildContext) (module, error)
	// link resolves kind-specific references of a built module.
	link(bc *buildContext, m module) error
}

// Build builds b into its bound application.
func Build(b Builder) (domain.Module, error) {
	return BuildFor(b, nil)
}

// Run builds b into its bound application and starts it.
func Run(ctx context.Context, b Builder) error {
	app := b.Node().app
	if app == nil {
		return &domain.StructureError{Builder: label(b), Err: domain.ErrNoApplication}
	}
	root, err := BuildFor(b, app)
	if err != nil {
		return err
	}
	return app.Start(ctx, root)
}

func label(b Builder) string {
	if name := b.Node().name; name != "" {
		return name
	}
	return fmt.Sprintf("<%s>", kindOf(b))
}

func kindOf(b Builder) string {
	switch b.(type) {
	case *Text:
		return "text"
	case *Func:
		return "func"
	case *Container:
		return "container"
	case *Input:
		return "input"
	case *Handler:
		return "handler"
	case *Selector:
		return "selector"
	default:
		return fmt.Sprintf("%T", b)
	}
}

// Kind returns the builder kind name ("text", "container", ...).
func Kind(b Builder) string {
	return kindOf(b)
}
