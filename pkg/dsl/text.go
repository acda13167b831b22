package dsl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Renderer transforms text content before it is written (e.g. markdown to ANSI).
type Renderer func(string) (string, error)

// Text displays a fixed string.
type Text struct {
	Fluent[*Text]
	content   string
	noNewline bool
	render    Renderer
}

// NewText creates a text builder. Output is newline-terminated by default.
func NewText(content string) *Text {
	t := &Text{content: content}
	t.init(t, "")
	return t
}

// Content replaces the displayed string.
func (t *Text) Content(content string) *Text {
	t.content = content
	return t
}

// NoNewline stops the text from being newline-terminated.
func (t *Text) NoNewline() *Text {
	t.noNewline = true
	return t
}

// Render sets a renderer applied to the content at run time.
// Render failures fall back to the raw content.
func (t *Text) Render(r Renderer) *Text {
	t.render = r
	return t
}

// ShallowStructuralEquals implements Builder.
func (t *Text) ShallowStructuralEquals(other Builder) bool {
	o, ok := other.(*Text)
	return ok && t.content == o.content && t.noNewline == o.noNewline && sameFunc(t.render, o.render)
}

func (t *Text) clone() Builder {
	c := &Text{content: t.content, noNewline: t.noNewline, render: t.render}
	c.init(c, "")
	return c
}

func (t *Text) refs() []Builder { return nil }

func (t *Text) relink(*copier, Builder) {}

func (t *Text) instantiate(*buildContext) (module, error) {
	return &textModule{content: t.content, newline: !t.noNewline, render: t.render}, nil
}

func (t *Text) link(*buildContext, module) error { return nil }

type textModule struct {
	moduleBase
	content string
	newline bool
	render  Renderer
}

func (m *textModule) Run(ctx context.Context, app domain.App) error {
	out := m.content
	if m.render != nil {
		rendered, err := m.render(out)
		if err != nil {
			app.Logger().Warn("render failed, writing raw content", "module", m.name, "err", err)
		} else {
			out = strings.TrimRight(rendered, "\n")
		}
	}

	if err := m.emitStyle(); err != nil {
		return err
	}
	if m.newline {
		_, err := fmt.Fprintln(m.writer, out)
		return err
	}
	_, err := io.WriteString(m.writer, out)
	return err
}
