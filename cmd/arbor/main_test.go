package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "arbor version "+arbor.Version+"\n", out)
}

func TestRunCmd(t *testing.T) {
	path := testutils.WriteDocument(t, "app.yaml", testutils.SurveyDocument)

	out, err := execute(t, "Ada\n36\n", "run", path, "--quiet")
	require.NoError(t, err)
	assert.Equal(t, "Welcome!\nName?\nAge?\nBye!\n", out)
}

func TestRunCmd_RequiresDocument(t *testing.T) {
	_, err := execute(t, "", "run")
	assert.Error(t, err)
}

func TestGraphCmd(t *testing.T) {
	path := testutils.WriteDocument(t, "app.yaml", testutils.SurveyDocument)

	out, err := execute(t, "", "graph", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `n0(("main <br/> container"))`)
	assert.Contains(t, out, `[["age_check <br/> handler"]]`)
}

func TestValidateCmd(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		path := testutils.WriteDocument(t, "app.yaml", testutils.SurveyDocument)
		out, err := execute(t, "", "validate", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Graph is valid!")
	})

	t.Run("Invalid", func(t *testing.T) {
		path := testutils.WriteDocument(t, "app.yaml", "modules:\n  - id: menu\n    kind: selector\n    initial: home\n")
		_, err := execute(t, "", "validate", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "selector has no scenes")
		assert.Contains(t, err.Error(), "unknown scene: home")
	})
}
