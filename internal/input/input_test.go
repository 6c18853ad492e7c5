package input

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirement_Sources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brief.md"), []byte("from file"), 0o600))

	r := Resolver{WorkDir: dir, Stdin: strings.NewReader("from stdin\n")}

	got, err := r.Requirement("literal text")
	require.NoError(t, err)
	assert.Equal(t, "literal text", got)

	got, err = r.Requirement("@brief.md")
	require.NoError(t, err)
	assert.Equal(t, "from file", got)

	got, err = r.Requirement("-")
	require.NoError(t, err)
	assert.Equal(t, "from stdin\n", got)

	_, err = r.Requirement("@missing.md")
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestRequirement_DefaultFile(t *testing.T) {
	dir := t.TempDir()
	r := Resolver{WorkDir: dir}

	_, err := r.Requirement("")
	assert.ErrorIs(t, err, ErrEmptyRequirement)

	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultRequirementFile), []byte("default brief"), 0o600))
	got, err := r.Requirement("")
	require.NoError(t, err)
	assert.Equal(t, "default brief", got)
}

func TestRequirement_AskFallback(t *testing.T) {
	var asked string
	r := Resolver{WorkDir: t.TempDir(), Ask: func(q string) (string, error) {
		asked = q
		return "  typed  ", nil
	}}

	got, err := r.Requirement("")
	require.NoError(t, err)
	assert.Equal(t, "typed", got)
	assert.Equal(t, "Describe the deliverable", asked)

	boom := errors.New("cancelled")
	r.Ask = func(string) (string, error) { return "", boom }
	_, err = r.Requirement("   ")
	assert.ErrorIs(t, err, boom)
}

func TestErrorText(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trace.txt"), []byte("Traceback..."), 0o600))
	r := Resolver{WorkDir: dir}

	got, err := r.ErrorText("KeyError: 'x'", "")
	require.NoError(t, err)
	assert.Equal(t, "KeyError: 'x'", got)

	got, err = r.ErrorText("KeyError: 'x'", "trace.txt")
	require.NoError(t, err)
	assert.Equal(t, "KeyError: 'x'\nTraceback...", got)

	got, err = r.ErrorText("", "trace.txt")
	require.NoError(t, err)
	assert.Equal(t, "\nTraceback...", got)

	_, err = r.ErrorText("", "nope.txt")
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestErrorText_Stdin(t *testing.T) {
	var notice bytes.Buffer
	r := Resolver{WorkDir: t.TempDir(), Stdin: strings.NewReader("pasted\n"), Notice: &notice}

	got, err := r.ErrorText("  ", "")
	require.NoError(t, err)
	assert.Equal(t, "pasted\n", got)
	assert.Contains(t, notice.String(), "Paste errors")

	r.Stdin = strings.NewReader("")
	_, err = r.ErrorText("", "")
	assert.ErrorIs(t, err, ErrEmptyErrorText)
}

func TestPathHints(t *testing.T) {
	dir := t.TempDir()
	r := Resolver{WorkDir: dir}

	got, err := r.PathHints(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	abs := filepath.Join(dir, "abs.csv")
	got, err = r.PathHints([]string{"data/in.csv", "", abs, "../up"})
	require.NoError(t, err)
	want := filepath.Join(dir, "data", "in.csv") + "\n" + abs + "\n" + filepath.Join(filepath.Dir(dir), "up") + "\n"
	assert.Equal(t, want, got)
}
