package dsl

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// Selector holds named scenes and runs one of them. Other scenes are reached
// with GoToScene, which navigates to a freshly built scene and restores the
// previous one when it ends.
type Selector struct {
	Fluent[*Selector]
	scenes  []Builder
	initial string
}

// NewSelector creates a selector over scenes. The first scene is the initial one.
func NewSelector(name string, scenes ...Builder) *Selector {
	s := &Selector{scenes: scenes}
	s.init(s, name)
	return s
}

// AddScene appends a scene.
func (s *Selector) AddScene(scenes ...Builder) *Selector {
	s.scenes = append(s.scenes, scenes...)
	return s
}

// Initial selects the scene that runs when the selector starts.
func (s *Selector) Initial(scene string) *Selector {
	s.initial = scene
	return s
}

// Scenes returns the scene builders in declaration order.
func (s *Selector) Scenes() []Builder {
	return s.scenes
}

// InitialScene returns the configured initial scene name, empty for the first scene.
func (s *Selector) InitialScene() string {
	return s.initial
}

// Scene returns the scene builder with the given name.
func (s *Selector) Scene(name string) (Builder, bool) {
	for _, sc := range s.scenes {
		if sc.Node().name == name {
			return sc, true
		}
	}
	return nil, false
}

// ShallowStructuralEquals implements Builder.
func (s *Selector) ShallowStructuralEquals(other Builder) bool {
	o, ok := other.(*Selector)
	return ok && s.initial == o.initial && len(s.scenes) == len(o.scenes)
}

func (s *Selector) clone() Builder {
	c := &Selector{initial: s.initial}
	c.init(c, "")
	return c
}

func (s *Selector) refs() []Builder {
	return s.scenes
}

func (s *Selector) relink(c *copier, src Builder) {
	scenes := src.(*Selector).scenes
	s.scenes = make([]Builder, len(scenes))
	for i, sc := range scenes {
		s.scenes[i] = c.builder(sc)
	}
}

func (s *Selector) instantiate(*buildContext) (module, error) {
	if len(s.scenes) == 0 {
		return nil, domain.ErrNoScenes
	}
	if s.initial != "" {
		if _, ok := s.Scene(s.initial); !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownScene, s.initial)
		}
	}
	return &selectorModule{scenes: s.scenes}, nil
}

func (s *Selector) link(bc *buildContext, m module) error {
	start := s.scenes[0]
	if s.initial != "" {
		start, _ = s.Scene(s.initial)
	}
	sm, err := bc.module(start)
	if err != nil {
		return err
	}
	base := m.base()
	base.children = append([]domain.Module{sm}, base.children...)
	return nil
}

type selectorModule struct {
	moduleBase
	scenes []Builder
}

func (m *selectorModule) Run(ctx context.Context, app domain.App) error {
	return m.emitStyle()
}

func (m *selectorModule) scene(name string) (Builder, bool) {
	for _, sc := range m.scenes {
		if sc.Node().name == name {
			return sc, true
		}
	}
	return nil, false
}

// GoToScene navigates to the named scene of the named selector.
// The scene is built fresh and runs under the invoking module's container;
// the container's previous running child is restored when the scene ends.
func GoToScene(app domain.App, selector, scene string) error {
	m, ok := app.Lookup(selector)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownModule, selector)
	}
	sel, ok := m.(*selectorModule)
	if !ok {
		return fmt.Errorf("module '%s' is not a selector", selector)
	}
	target, ok := sel.scene(scene)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownScene, scene)
	}
	return app.NavigateTo(target)
}
