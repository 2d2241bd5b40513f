package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pserrors "github.com/Asaad47/pdf-search/internal/errors"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootRegistersSubcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"index", "search", "watch", "status", "version"} {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "missing subcommand %s", name)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pdfsearch")

	out, err = runCmd(t, "version", "--short")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")

	out, err = runCmd(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
}

func TestCommandsFailWithoutConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	_, err := runCmd(t, "index", "--config", missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, pserrors.ErrConfigNotFound)
}

func TestSearchFailsWithoutIndex(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, `
pdf_paths:
  - `+filepath.Join(dir, "decks", "*.pdf")+`
chroma_dir: `+filepath.Join(dir, "chroma")+`
default_query: test
logging:
  write_to_stderr: false
`)

	_, err := runCmd(t, "search", "anything", "--config", cfgPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, pserrors.ErrIndexNotFound)
}

func TestIndexFailsWithoutSources(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, `
pdf_paths:
  - `+filepath.Join(dir, "empty", "*.pdf")+`
chroma_dir: `+filepath.Join(dir, "chroma")+`
logging:
  write_to_stderr: false
`)

	_, err := runCmd(t, "index", "--config", cfgPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, pserrors.ErrNoSourcesFound)

	// A failed build must not leave a store behind.
	_, statErr := os.Stat(filepath.Join(dir, "chroma"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short text", excerpt("short   text", 300))

	long := ""
	for range 50 {
		long += "0123456789"
	}
	got := excerpt(long, 300)
	assert.Equal(t, 303, len([]rune(got)))
	assert.Contains(t, got, "...")
}
