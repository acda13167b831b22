package arbor_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInput(t *testing.T) {
	app := arbor.New()
	app.UpdateInput("name", "Ada")
	app.UpdateInput("age", "42")
	app.UpdateInput("score", 7)
	app.UpdateInput("nothing", nil)

	t.Run("Direct", func(t *testing.T) {
		v, err := arbor.GetInput[string](app, "name")
		require.NoError(t, err)
		assert.Equal(t, "Ada", v)
	})

	t.Run("Weak Conversion", func(t *testing.T) {
		v, err := arbor.GetInput[int](app, "age")
		require.NoError(t, err)
		assert.Equal(t, 42, v)

		s, err := arbor.GetInput[string](app, "score")
		require.NoError(t, err)
		assert.Equal(t, "7", s)
	})

	t.Run("Absent", func(t *testing.T) {
		_, err := arbor.GetInput[string](app, "missing")
		assert.ErrorIs(t, err, domain.ErrInputAbsent)
	})

	t.Run("Mismatch", func(t *testing.T) {
		_, err := arbor.GetInput[int](app, "name")
		assert.ErrorIs(t, err, domain.ErrTypeMismatch)

		_, err = arbor.GetInput[int](app, "nothing")
		assert.ErrorIs(t, err, domain.ErrTypeMismatch)
	})

	t.Run("Blank Line", func(t *testing.T) {
		app.UpdateInput("blank", "")
		app.UpdateInput("spaces", "  ")

		_, err := arbor.GetInput[int](app, "blank")
		assert.ErrorIs(t, err, domain.ErrTypeMismatch)
		_, err = arbor.GetInput[bool](app, "blank")
		assert.ErrorIs(t, err, domain.ErrTypeMismatch)
		_, err = arbor.GetInput[float64](app, "spaces")
		assert.ErrorIs(t, err, domain.ErrTypeMismatch)

		s, err := arbor.GetInput[string](app, "blank")
		require.NoError(t, err)
		assert.Equal(t, "", s)
	})

	t.Run("No Widening", func(t *testing.T) {
		app.UpdateInput("one", "1")
		_, err := arbor.GetInput[[]string](app, "one")
		assert.ErrorIs(t, err, domain.ErrTypeMismatch)

		app.UpdateInput("many", []any{"a", "b"})
		v, err := arbor.GetInput[[]string](app, "many")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, v)
	})

	t.Run("Last Write Wins", func(t *testing.T) {
		app.UpdateInput("name", "Grace")
		v, err := arbor.GetInput[string](app, "name")
		require.NoError(t, err)
		assert.Equal(t, "Grace", v)
	})
}

func TestMustGetInput_Panics(t *testing.T) {
	app := arbor.New()
	assert.Panics(t, func() { arbor.MustGetInput[int](app, "missing") })

	app.UpdateInput("n", 3)
	assert.Equal(t, 3, arbor.MustGetInput[int](app, "n"))
}

func TestExitHook_RunsOnce(t *testing.T) {
	calls := 0
	hook := arbor.ExitHook{
		Label: "count",
		Fn: func(ctx context.Context, app *arbor.Application) error {
			calls++
			return nil
		},
	}
	out := &bytes.Buffer{}
	app := arbor.New(arbor.WithWriter(out), arbor.WithExitHook(hook))

	root := dsl.NewContainer("main").AddChild(dsl.NewText("a"), dsl.NewContainer("inner").AddChild(dsl.NewText("b")))
	require.NoError(t, app.Run(context.Background(), root))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "a\nb\n", out.String())
}

func TestExitHook_NotRunOnFailure(t *testing.T) {
	calls := 0
	hook := arbor.ExitHook{
		Label: "count",
		Fn: func(ctx context.Context, app *arbor.Application) error {
			calls++
			return nil
		},
	}
	app := arbor.New(arbor.WithWriter(&bytes.Buffer{}), arbor.WithExitHook(hook))

	root := dsl.NewFunc("fail", func(ctx context.Context, app domain.App) error {
		return errors.New("boom")
	})
	require.Error(t, app.Run(context.Background(), root))
	assert.Zero(t, calls)
}

func TestExitHook_ErrorIsReported(t *testing.T) {
	hook := arbor.ExitHook{
		Label: "broken",
		Fn: func(ctx context.Context, app *arbor.Application) error {
			return errors.New("cannot flush")
		},
	}
	app := arbor.New(arbor.WithWriter(&bytes.Buffer{}), arbor.WithExitHook(hook))

	err := app.Run(context.Background(), dsl.NewText("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestExitHook_Equal(t *testing.T) {
	assert.True(t, arbor.DefaultExitHook.Equal(arbor.DefaultExitHook))
	assert.False(t, arbor.DefaultExitHook.Equal(arbor.NoExitHook))

	a := arbor.ExitHook{Label: "x", Fn: func(context.Context, *arbor.Application) error { return nil }}
	b := arbor.ExitHook{Label: "x", Fn: func(context.Context, *arbor.Application) error { return errors.New("other") }}
	assert.True(t, a.Equal(b), "hooks compare by label")
	assert.False(t, a.Equal(arbor.ExitHook{Label: "x"}))
}

func TestApplication_Equal(t *testing.T) {
	a := arbor.New(arbor.WithName("survey"))
	b := arbor.New(arbor.WithName("survey"))
	c := arbor.New(arbor.WithName("survey"), arbor.WithExitHook(arbor.NoExitHook))
	d := arbor.New(arbor.WithName("other"))

	a.UpdateInput("k", "v")

	assert.True(t, a.Equal(b), "independently configured apps with the default hook are equal")
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(nil))
}

func TestApplication_Clone(t *testing.T) {
	app := arbor.New(arbor.WithName("survey"))
	app.UpdateInput("k", "v")

	c := app.Clone()
	assert.NotSame(t, app, c)
	assert.True(t, app.Equal(c))
	_, ok := c.Input("k")
	assert.False(t, ok, "clones start without runtime state")
}

func TestApplication_RequestsOutsideRun(t *testing.T) {
	app := arbor.New()
	m, err := dsl.NewText("x").SetName("x").BuildFor(app)
	require.NoError(t, err)

	assert.ErrorIs(t, app.TerminateChild("x"), domain.ErrNotRunning)
	assert.ErrorIs(t, app.TerminateChild("ghost"), domain.ErrUnknownModule)
	assert.ErrorIs(t, app.RunModuleAsChild(m), domain.ErrNotRunning)
	assert.ErrorIs(t, app.NavigateTo(dsl.NewText("y")), domain.ErrNotRunning)
	assert.Equal(t, domain.StatusNotStarted, app.Status(m))
	assert.Nil(t, app.CurrentRunningChild(m))
}

func TestApplication_AlreadyRunning(t *testing.T) {
	app := arbor.New(arbor.WithWriter(&bytes.Buffer{}))

	var nested error
	root := dsl.NewFunc("reenter", func(ctx context.Context, _ domain.App) error {
		nested = app.Run(ctx, dsl.NewText("inner"))
		return nil
	})
	require.NoError(t, app.Run(context.Background(), root))
	assert.ErrorIs(t, nested, domain.ErrAlreadyRunning)
}

func TestApplication_StatusAfterRun(t *testing.T) {
	app := arbor.New(arbor.WithWriter(&bytes.Buffer{}))
	require.NoError(t, app.Run(context.Background(), dsl.NewContainer("main").AddChild(dsl.NewText("x").SetName("x"))))

	x, ok := app.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, domain.StatusTerminated, app.Status(x))
	assert.NotNil(t, app.Root())
}

func TestApplication_Persistence(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	ask := func() *dsl.Container {
		return dsl.NewContainer("main").AddChild(dsl.NewInput("name", ""))
	}

	first := arbor.New(
		arbor.WithName("survey"),
		arbor.WithInput(strings.NewReader("Ada\n")),
		arbor.WithWriter(&bytes.Buffer{}),
		arbor.WithStore(store),
		arbor.WithRunID("run-1"),
	)
	require.NoError(t, first.Run(ctx, ask()))

	snap, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "survey", snap.App)
	assert.Equal(t, "Ada", snap.Inputs["name"])

	// A later run restores the answers before any module runs.
	var restored string
	second := arbor.New(
		arbor.WithName("survey"),
		arbor.WithWriter(&bytes.Buffer{}),
		arbor.WithStore(store),
		arbor.WithRunID("run-1"),
	)
	root := dsl.NewFunc("check", func(ctx context.Context, app domain.App) error {
		var err error
		restored, err = arbor.GetInput[string](app, "name")
		return err
	})
	require.NoError(t, second.Run(ctx, root))
	assert.Equal(t, "Ada", restored)
}

func TestApplication_Locker(t *testing.T) {
	locker := memory.NewLocker()
	ctx := context.Background()

	// Another holder of the same run ID blocks the run until ctx expires.
	unlock, err := locker.Lock(ctx, "busy", time.Second)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	app := arbor.New(arbor.WithWriter(&bytes.Buffer{}), arbor.WithRunID("busy"), arbor.WithLocker(locker, time.Second))
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err = app.Run(short, dsl.NewText("x"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The lock is released after a completed run.
	free := arbor.New(arbor.WithWriter(&bytes.Buffer{}), arbor.WithRunID("free"), arbor.WithLocker(locker, time.Second))
	require.NoError(t, free.Run(ctx, dsl.NewText("x")))
	again, err := locker.Lock(ctx, "free", time.Second)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestApplication_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	app := arbor.New(arbor.WithWriter(&bytes.Buffer{}), arbor.WithMetrics(metrics))
	root := dsl.NewContainer("main").AddChild(dsl.NewText("a").SetName("a"), dsl.NewText("b").SetName("b"))
	require.NoError(t, app.Run(context.Background(), root))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Begins.WithLabelValues("main")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Ends.WithLabelValues("a")))
}

func TestLineReader(t *testing.T) {
	r := arbor.NewLineReader(strings.NewReader("one\r\ntwo\nlast"))
	ctx := context.Background()

	for _, want := range []string{"one", "two", "last"} {
		got, err := r.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := r.ReadLine(ctx)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = arbor.NewLineReader(strings.NewReader("x\n")).ReadLine(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
