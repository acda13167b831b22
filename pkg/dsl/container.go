package dsl

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Container groups children that run in declaration order.
type Container struct {
	Fluent[*Container]
}

// NewContainer creates a container builder.
func NewContainer(name string) *Container {
	c := &Container{}
	c.init(c, name)
	return c
}

// ShallowStructuralEquals implements Builder.
func (c *Container) ShallowStructuralEquals(other Builder) bool {
	_, ok := other.(*Container)
	return ok
}

func (c *Container) clone() Builder {
	return NewContainer("")
}

func (c *Container) refs() []Builder { return nil }

func (c *Container) relink(*copier, Builder) {}

func (c *Container) instantiate(*buildContext) (module, error) {
	return &containerModule{}, nil
}

func (c *Container) link(*buildContext, module) error { return nil }

type containerModule struct {
	moduleBase
}

// Run emits the container's style token; children are scheduled by the engine.
func (m *containerModule) Run(ctx context.Context, app domain.App) error {
	return m.emitStyle()
}
