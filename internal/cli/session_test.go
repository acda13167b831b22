package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/arbor/internal/testutils"
	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSession(t *testing.T) {
	path := testutils.WriteDocument(t, "app.yaml", testutils.SurveyDocument)

	var out bytes.Buffer
	err := RunSession(context.Background(), RunOptions{Path: path}, strings.NewReader("Ada\nold\n36\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, "Welcome!\nName?\nAge?\nPlease type a number.\nAge?\nBye!\n", out.String())
}

func TestRunSession_InputClosed(t *testing.T) {
	path := testutils.WriteDocument(t, "app.yaml", testutils.SurveyDocument)

	var out bytes.Buffer
	err := RunSession(context.Background(), RunOptions{Path: path}, strings.NewReader("Ada\n"), &out)
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "Bye!")
}

func TestRunSession_FileStore(t *testing.T) {
	path := testutils.WriteDocument(t, "app.yaml", testutils.SurveyDocument)
	dir := t.TempDir()
	opts := RunOptions{Path: path, StoreDir: dir, RunID: "ada"}

	var out bytes.Buffer
	require.NoError(t, RunSession(context.Background(), opts, strings.NewReader("Ada\n36\n"), &out))
	assert.Contains(t, out.String(), ">>> Run 'ada' active.")

	snap, err := file.New(dir).Load(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, "survey", snap.App)
	assert.Equal(t, "Ada", snap.Inputs["name"])

	out.Reset()
	require.NoError(t, RunSession(context.Background(), opts, strings.NewReader("Ada\n36\n"), &out))
	assert.Contains(t, out.String(), ">>> Resuming run 'ada'.")

	out.Reset()
	opts.Fresh = true
	require.NoError(t, RunSession(context.Background(), opts, strings.NewReader("Ada\n36\n"), &out))
	assert.Contains(t, out.String(), ">>> Run 'ada' active.")
}

func TestRunSession_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	path := testutils.WriteDocument(t, "app.yaml", testutils.SurveyDocument)
	opts := RunOptions{Path: path, RedisAddr: mr.Addr(), RunID: "grace", Quiet: true}

	var out bytes.Buffer
	require.NoError(t, RunSession(context.Background(), opts, strings.NewReader("Grace\n85\n"), &out))
	assert.NotContains(t, out.String(), ">>>")

	store := redis.New(mr.Addr(), "", 0)
	defer store.Close()
	snap, err := store.Load(context.Background(), "grace")
	require.NoError(t, err)
	assert.Equal(t, "Grace", snap.Inputs["name"])

	assert.False(t, mr.Exists(redis.DefaultPrefix+"lock:grace"), "lock must be released after the run")
}

func TestRunSession_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	path := testutils.WriteDocument(t, "app.yaml", testutils.SurveyDocument)
	err := RunSession(context.Background(), RunOptions{Path: path, RedisAddr: addr, RunID: "x"}, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestRunSession_MetricsServer(t *testing.T) {
	path := testutils.WriteDocument(t, "app.yaml", testutils.SurveyDocument)
	opts := RunOptions{Path: path, MetricsAddr: "127.0.0.1:0"}

	require.NoError(t, RunSession(context.Background(), opts, strings.NewReader("Ada\n36\n"), &bytes.Buffer{}))
}

func TestRunSession_Markdown(t *testing.T) {
	doc := `
modules:
  - id: intro
    kind: text
    content: "- item"
    markdown: true
`
	path := testutils.WriteDocument(t, "app.yaml", doc)

	var out bytes.Buffer
	require.NoError(t, RunSession(context.Background(), RunOptions{Path: path, Markdown: true}, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "• item")
}

func TestRunSession_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		opts RunOptions
		msg  string
	}{
		{
			name: "Invalid Document",
			doc:  "modules: [",
			msg:  "failed to parse document",
		},
		{
			name: "Invalid Graph",
			doc:  "modules:\n  - id: menu\n    kind: selector\n",
			msg:  "selector has no scenes",
		},
		{
			name: "Invalid Log Level",
			doc:  testutils.SurveyDocument,
			opts: RunOptions{LogLevel: "loud"},
			msg:  "loud",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.Path = testutils.WriteDocument(t, "app.yaml", tt.doc)
			err := RunSession(context.Background(), opts, strings.NewReader(""), &bytes.Buffer{})
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestRunSession_SecureStore(t *testing.T) {
	path := testutils.WriteDocument(t, "app.yaml", testutils.SurveyDocument)
	dir := t.TempDir()
	key := bytes.Repeat([]byte{7}, 32)
	opts := RunOptions{Path: path, StoreDir: dir, RunID: "secure", Quiet: true, MaskPatterns: []string{"^name$"}, EncryptionKey: key}

	require.NoError(t, RunSession(context.Background(), opts, strings.NewReader("Ada\n36\n"), &bytes.Buffer{}))

	raw, err := file.New(dir).Load(context.Background(), "secure")
	require.NoError(t, err)
	assert.NotContains(t, raw.Inputs, "name")
	assert.Contains(t, raw.Inputs, "__encrypted__")

	opts.EncryptionKey = []byte("short")
	err = RunSession(context.Background(), opts, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "32 bytes")
}

func TestRunSession_Schema(t *testing.T) {
	doc := testutils.SurveyDocument + `
schema:
  name: string
  age_check: int
  nickname: string?
`
	path := testutils.WriteDocument(t, "app.yaml", doc)
	require.NoError(t, RunSession(context.Background(), RunOptions{Path: path}, strings.NewReader("Ada\n36\n"), &bytes.Buffer{}))

	bad := testutils.SurveyDocument + `
schema:
  age_check: string
`
	path = testutils.WriteDocument(t, "app.yaml", bad)
	err := RunSession(context.Background(), RunOptions{Path: path}, strings.NewReader("Ada\n36\n"), &bytes.Buffer{})
	assert.ErrorContains(t, err, `input "age_check": expected string, got int`)

	invalid := testutils.SurveyDocument + `
schema:
  age_check: date
`
	path = testutils.WriteDocument(t, "app.yaml", invalid)
	err = RunSession(context.Background(), RunOptions{Path: path}, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid schema")
}
