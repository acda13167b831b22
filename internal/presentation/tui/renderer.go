package tui

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/charmbracelet/glamour"
)

// Styles accepted by NewRenderer. "auto" detects the terminal background.
const (
	StyleAuto    = "auto"
	StyleDark    = "dark"
	StyleLight   = "light"
	StyleNoTTY   = "notty"
	StyleASCII   = "ascii"
	defaultWidth = 80
)

// NewRenderer returns a text renderer that turns markdown into ANSI output
// using glamour. A non-positive wrap uses 80 columns.
func NewRenderer(style string, wrap int) (dsl.Renderer, error) {
	if wrap <= 0 {
		wrap = defaultWidth
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wrap)}
	switch style {
	case "", StyleAuto:
		opts = append(opts, glamour.WithAutoStyle())
	case StyleDark, StyleLight, StyleNoTTY, StyleASCII:
		opts = append(opts, glamour.WithStandardStyle(style))
	default:
		return nil, fmt.Errorf("unknown markdown style %q", style)
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}
