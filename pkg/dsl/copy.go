package dsl

import "github.com/aretw0/arbor/pkg/domain"

// copier clones a builder graph. It keeps an identity-keyed map from source
// object to clone, so a builder shared by several parents is cloned once and
// cycles terminate.
type copier struct {
	builders map[Builder]Builder
	apps     map[domain.App]domain.App
	queue    []Builder
}

func newCopier() *copier {
	return &copier{
		builders: make(map[Builder]Builder),
		apps:     make(map[domain.App]domain.App),
	}
}

// builder returns the clone of src, creating and registering it on first visit.
// Children and references of the clone are resolved later by run.
func (c *copier) builder(src Builder) Builder {
	if src == nil {
		return nil
	}
	if dst, ok := c.builders[src]; ok {
		return dst
	}
	dst := src.clone()
	c.builders[src] = dst
	c.queue = append(c.queue, src)
	return dst
}

func (c *copier) app(src domain.App) domain.App {
	if src == nil {
		return nil
	}
	if dst, ok := c.apps[src]; ok {
		return dst
	}
	dst := src.Clone()
	c.apps[src] = dst
	return dst
}

func (c *copier) run() {
	for len(c.queue) > 0 {
		src := c.queue[0]
		c.queue = c.queue[1:]
		dst := c.builders[src]

		from, to := src.Node(), dst.Node()
		to.name = from.name
		to.style = from.style
		to.hardStyle = from.hardStyle
		to.reader = from.reader
		to.writer = from.writer
		to.app = c.app(from.app)
		to.children = make([]Builder, len(from.children))
		for i, child := range from.children {
			to.children[i] = c.builder(child)
		}

		dst.relink(c, src)
	}
}

// Copy returns a deep copy of the graph rooted at b.
//
// The copy is isomorphic to the source: builders that are the same object in
// the source are the same object in the copy, back-references (a handler's
// owning input) point into the copy, and bound applications are cloned.
// Input sources and output sinks are external handles and stay shared.
// The source graph is not modified.
func Copy[T Builder](b T) T {
	c := newCopier()
	dst := c.builder(b)
	c.run()
	return dst.(T)
}
