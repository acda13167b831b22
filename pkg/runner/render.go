package runner

import (
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/dsl"
)

// Renderer styles accepted by MarkdownRenderer.
const (
	StyleAuto  = tui.StyleAuto
	StyleDark  = tui.StyleDark
	StyleLight = tui.StyleLight
	StyleNoTTY = tui.StyleNoTTY
)

// MarkdownRenderer returns a Text renderer that formats markdown for the
// terminal. wrap <= 0 uses the default width.
func MarkdownRenderer(style string, wrap int) (dsl.Renderer, error) {
	return tui.NewRenderer(style, wrap)
}
