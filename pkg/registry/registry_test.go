package registry_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_BuiltIns(t *testing.T) {
	reg := registry.Default()
	app := arbor.New(arbor.WithWriter(&bytes.Buffer{}))
	ctx := context.Background()

	tests := []struct {
		logic   string
		line    string
		want    any
		wantErr bool
	}{
		{"int", " 42 ", 42, false},
		{"int", "4.2", nil, true},
		{"float", "4.5", 4.5, false},
		{"float", "abc", nil, true},
		{"bool", "yes", true, false},
		{"bool", "N", false, false},
		{"bool", "true", true, false},
		{"bool", "maybe", nil, true},
		{"nonempty", "  hi ", "hi", false},
		{"nonempty", "   ", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.logic+"/"+tt.line, func(t *testing.T) {
			fn, err := reg.Lookup(tt.logic)
			require.NoError(t, err)

			got, err := fn(ctx, app, tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefault_Echo(t *testing.T) {
	out := &bytes.Buffer{}
	app := arbor.New(arbor.WithWriter(out))

	fn, err := registry.Default().Lookup("echo")
	require.NoError(t, err)

	got, err := fn(context.Background(), app, "hello")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, "hello\n", out.String())
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := registry.NewRegistry()

	_, err := reg.Lookup("upper")
	assert.Error(t, err)

	reg.Register("upper", func(ctx context.Context, app domain.App, line string) (any, error) {
		return "first", nil
	})
	reg.Register("upper", func(ctx context.Context, app domain.App, line string) (any, error) {
		return "second", nil
	})

	fn, err := reg.Lookup("upper")
	require.NoError(t, err)
	got, _ := fn(context.Background(), nil, "")
	assert.Equal(t, "second", got, "later registration overwrites")
	assert.Equal(t, []string{"upper"}, reg.Names())
}

func TestDefault_Names(t *testing.T) {
	assert.Equal(t, []string{"bool", "echo", "float", "int", "nonempty"}, registry.Default().Names())
}
