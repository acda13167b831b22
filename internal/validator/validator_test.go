package validator

import (
	"errors"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_ValidGraph(t *testing.T) {
	in := dsl.NewInput("age", "Age?")
	in.AddHandler(dsl.NewHandler("age_check", nil))
	shared := dsl.NewText("s").SetName("shared")
	root := dsl.NewContainer("main").AddChild(
		in,
		dsl.NewSelector("menu", dsl.NewText("h").SetName("home")),
		shared,
		dsl.NewContainer("again").AddChild(shared),
	)

	assert.Empty(t, Inspect(root))
	assert.NoError(t, ValidateGraph(root))
}

func TestInspect_Cycle(t *testing.T) {
	a := dsl.NewContainer("a")
	b := dsl.NewContainer("b").AddChild(a)
	a.AddChild(b)

	assert.Empty(t, Inspect(a))
}

func TestInspect_Problems(t *testing.T) {
	tests := []struct {
		name     string
		root     func() dsl.Builder
		module   string
		severity Severity
		want     error
	}{
		{
			name:     "Empty Selector",
			root:     func() dsl.Builder { return dsl.NewContainer("main").AddChild(dsl.NewSelector("menu")) },
			module:   "menu",
			severity: SeverityError,
			want:     domain.ErrNoScenes,
		},
		{
			name: "Unknown Initial Scene",
			root: func() dsl.Builder {
				return dsl.NewSelector("menu", dsl.NewText("x").SetName("home")).Initial("about")
			},
			module:   "menu",
			severity: SeverityError,
			want:     domain.ErrUnknownScene,
		},
		{
			name:     "Detached Handler",
			root:     func() dsl.Builder { return dsl.NewContainer("main").AddChild(dsl.NewHandler("h", nil)) },
			module:   "h",
			severity: SeverityError,
			want:     domain.ErrDetachedHandler,
		},
		{
			name:     "Unnamed Input",
			root:     func() dsl.Builder { return dsl.NewContainer("main").AddChild(dsl.NewInput("", "?")) },
			module:   "<input>",
			severity: SeverityError,
			want:     domain.ErrUnnamed,
		},
		{
			name: "Duplicate Name",
			root: func() dsl.Builder {
				return dsl.NewContainer("main").AddChild(dsl.NewContainer("x"), dsl.NewContainer("x"))
			},
			module:   "x",
			severity: SeverityWarning,
			want:     ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Inspect(tt.root())
			require.NotEmpty(t, issues)

			var found bool
			for _, issue := range issues {
				if issue.Module == tt.module && issue.Severity == tt.severity && errors.Is(issue.Err, tt.want) {
					found = true
				}
			}
			assert.True(t, found, "expected %v on %s, got %v", tt.want, tt.module, issues)
		})
	}
}

func TestInspect_ForeignHandler(t *testing.T) {
	in := dsl.NewInput("age", "")
	h := dsl.NewHandler("check", nil)
	in.AddHandler(h)
	root := dsl.NewContainer("main").AddChild(in, h)

	issues := Inspect(root)
	require.Len(t, issues, 1)
	assert.Equal(t, "check", issues[0].Module)
	assert.ErrorIs(t, issues[0].Err, ErrForeignHandler)
}

func TestValidateGraph_WarningsPass(t *testing.T) {
	root := dsl.NewContainer("main").AddChild(dsl.NewContainer("x"), dsl.NewContainer("x"))
	assert.NoError(t, ValidateGraph(root))
}

func TestValidateGraph_Errors(t *testing.T) {
	root := dsl.NewContainer("main").AddChild(dsl.NewSelector("menu"), dsl.NewHandler("h", nil))

	err := ValidateGraph(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 2 errors")
	assert.Contains(t, err.Error(), "[error] menu: selector has no scenes")
}
