package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
)

// ErrDuplicateName is reported when distinct builders share a name. Building
// such a graph works, but name lookups resolve to the last module built.
var ErrDuplicateName = errors.New("duplicate module name")

// ErrForeignHandler is reported when a handler is placed under a module other
// than its owning input.
var ErrForeignHandler = errors.New("handler placed outside its input")

// Severity ranks an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one problem found in a builder graph.
type Issue struct {
	Module   string
	Severity Severity
	Err      error
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %v", i.Severity, i.Module, i.Err)
}

// Inspect walks the graph rooted at root and reports every problem it finds.
// It never builds the graph, so it can report several problems at once where
// a build stops at the first.
func Inspect(root dsl.Builder) []Issue {
	var issues []Issue
	report := func(b dsl.Builder, sev Severity, err error) {
		issues = append(issues, Issue{Module: labelOf(b), Severity: sev, Err: err})
	}

	seen := map[dsl.Builder]bool{root: true}
	names := make(map[string]dsl.Builder)
	queue := []dsl.Builder{root}

	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]

		next := append([]dsl.Builder(nil), b.Node().Children()...)

		if name := b.Node().Name(); name != "" {
			if prev, ok := names[name]; ok && prev != b {
				report(b, SeverityWarning, fmt.Errorf("%w: %s", ErrDuplicateName, name))
			}
			names[name] = b
		}

		switch v := b.(type) {
		case *dsl.Input:
			if v.Node().Name() == "" {
				report(b, SeverityError, domain.ErrUnnamed)
			}
		case *dsl.Handler:
			if v.Owner() == nil {
				report(b, SeverityError, domain.ErrDetachedHandler)
			}
		case *dsl.Selector:
			if len(v.Scenes()) == 0 {
				report(b, SeverityError, domain.ErrNoScenes)
			}
			if initial := v.InitialScene(); initial != "" {
				if _, ok := v.Scene(initial); !ok {
					report(b, SeverityError, fmt.Errorf("%w: %s", domain.ErrUnknownScene, initial))
				}
			}
			next = append(next, v.Scenes()...)
		}

		for _, child := range next {
			if h, ok := child.(*dsl.Handler); ok && h.Owner() != nil && h.Owner() != b {
				report(child, SeverityError, ErrForeignHandler)
			}
			if !seen[child] {
				seen[child] = true
				queue = append(queue, child)
			}
		}
	}
	return issues
}

// ValidateGraph returns an error listing every error-level issue, or nil.
// Warnings are not failures.
func ValidateGraph(root dsl.Builder) error {
	var errs []string
	for _, issue := range Inspect(root) {
		if issue.Severity == SeverityError {
			errs = append(errs, issue.String())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(errs, "\n- "))
	}
	return nil
}

func labelOf(b dsl.Builder) string {
	if name := b.Node().Name(); name != "" {
		return name
	}
	return "<" + dsl.Kind(b) + ">"
}
