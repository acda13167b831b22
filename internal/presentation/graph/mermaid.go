package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/dsl"
)

// GraphOverlay contains run state to highlight on the graph, by module name.
type GraphOverlay struct {
	VisitedModules []string
	CurrentModule  string
}

// GenerateMermaid produces a Mermaid flowchart of the builder graph rooted at root.
// Each distinct builder is drawn once, so shared subtrees appear as nodes with
// several parents and cycles as back edges. Shapes follow the module kind:
// - Root: ((Circle))
// - Handler: [[Subroutine]]
// - Input: [/Parallelogram/]
// - Selector: {Rhombus}
// - Default: [Rectangle]
// Selector scenes are drawn as dotted edges labelled with the scene name.
func GenerateMermaid(root dsl.Builder, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make(map[dsl.Builder]string)
	var order []dsl.Builder
	visit := func(b dsl.Builder) string {
		if id, ok := ids[b]; ok {
			return id
		}
		id := fmt.Sprintf("n%d", len(order))
		ids[b] = id
		order = append(order, b)
		return id
	}
	visit(root)

	// order grows while it is walked; the walk ends when no new builder appears.
	var edges []string
	for i := 0; i < len(order); i++ {
		b := order[i]
		from := ids[b]

		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case dsl.Kind(b) == "handler":
			opener, closer = "[[", "]]"
		case dsl.Kind(b) == "input":
			opener, closer = "[/", "/]"
		case dsl.Kind(b) == "selector":
			opener, closer = "{", "}"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", from, opener, label(b), closer))

		for _, child := range b.Node().Children() {
			edges = append(edges, fmt.Sprintf("    %s --> %s\n", from, visit(child)))
		}
		if sel, ok := b.(*dsl.Selector); ok {
			for _, scene := range sel.Scenes() {
				name := escape(scene.Node().Name())
				edges = append(edges, fmt.Sprintf("    %s -. \"%s\" .-> %s\n", from, name, visit(scene)))
			}
		}
	}
	for _, e := range edges {
		sb.WriteString(e)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on light fills in both themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool, len(overlay.VisitedModules))
		for _, name := range overlay.VisitedModules {
			visited[name] = true
		}
		for _, b := range order {
			name := b.Node().Name()
			if name == "" {
				continue
			}
			if name == overlay.CurrentModule {
				sb.WriteString(fmt.Sprintf("    class %s current;\n", ids[b]))
			} else if visited[name] {
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", ids[b]))
			}
		}
	}

	return sb.String()
}

func label(b dsl.Builder) string {
	kind := dsl.Kind(b)
	name := b.Node().Name()
	if name == "" {
		return "&lt;" + kind + "&gt;"
	}
	return escape(name) + " <br/> " + kind
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
