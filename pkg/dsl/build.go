package dsl

import (
	"github.com/aretw0/arbor/pkg/domain"
)

// buildContext holds the state of one build. Each distinct builder is built
// once per build, so shared builders become shared modules and cyclic graphs
// become cyclic module trees.
type buildContext struct {
	app   domain.App
	built map[Builder]module
	names map[string]Builder
	queue []Builder
}

// BuildFor builds the graph rooted at b into app. When app is nil, the
// application bound to b is used. Builders are only read, so the same graph
// can be built by independent runs.
func BuildFor(b Builder, app domain.App) (domain.Module, error) {
	if app == nil {
		app = b.Node().app
	}
	if app == nil {
		return nil, &domain.StructureError{Builder: label(b), Err: domain.ErrNoApplication}
	}

	bc := &buildContext{
		app:   app,
		built: make(map[Builder]module),
		names: make(map[string]Builder),
	}
	root, err := bc.module(b)
	if err != nil {
		return nil, err
	}

	for len(bc.queue) > 0 {
		next := bc.queue[0]
		bc.queue = bc.queue[1:]
		m := bc.built[next]

		children := next.Node().children
		linked := make([]domain.Module, 0, len(children))
		for _, child := range children {
			cm, err := bc.module(child)
			if err != nil {
				return nil, err
			}
			linked = append(linked, cm)
		}
		m.base().children = append(m.base().children, linked...)

		if err := next.link(bc, m); err != nil {
			return nil, &domain.StructureError{Builder: label(next), Err: err}
		}
	}
	return root, nil
}

// module returns the module built for b, instantiating it on first visit.
func (bc *buildContext) module(b Builder) (module, error) {
	if m, ok := bc.built[b]; ok {
		return m, nil
	}

	m, err := b.instantiate(bc)
	if err != nil {
		return nil, &domain.StructureError{Builder: label(b), Err: err}
	}

	n := b.Node()
	base := m.base()
	base.name = n.name
	base.style = n.style
	base.reader = n.reader
	if base.reader == nil {
		base.reader = bc.app.Reader()
	}
	base.writer = n.writer
	if base.writer == nil {
		base.writer = bc.app.Writer()
	}

	bc.built[b] = m
	bc.queue = append(bc.queue, b)

	if n.name != "" {
		if prev, dup := bc.names[n.name]; dup && prev != b {
			bc.app.Logger().Warn("duplicate module name", "module", n.name, "kind", kindOf(b))
		}
		bc.names[n.name] = b
		bc.app.Register(m)
	}
	return m, nil
}
