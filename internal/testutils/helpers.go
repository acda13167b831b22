package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteDocument writes content to name inside a fresh temp directory and
// returns the absolute path. It fails the test immediately on error.
func WriteDocument(t *testing.T, name, content string) string {
	t.Helper()

	dir := t.TempDir()
	absPath, err := filepath.Abs(filepath.Join(dir, name))
	require.NoError(t, err, "Failed to get absolute path for document")

	require.NoError(t, os.WriteFile(absPath, []byte(content), 0o644), "Failed to write document")
	return absPath
}

// SurveyDocument is a small application document used across CLI tests:
// it asks for a name and an age, retrying until the age is a number.
const SurveyDocument = `
name: survey
root: main
modules:
  - id: main
    children: [welcome, name, age, bye]
  - id: welcome
    kind: text
    content: Welcome!
  - id: name
    kind: input
    prompt: Name?
    handlers: [name_check]
  - id: name_check
    kind: safe_handler
    logic: nonempty
    message: Name cannot be empty.
  - id: age
    kind: input
    prompt: Age?
    handlers: [age_check]
  - id: age_check
    kind: safe_handler
    logic: int
    message: Please type a number.
  - id: bye
    kind: text
    content: Bye!
`
