package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pserrors "github.com/Asaad47/pdf-search/internal/errors"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}

func paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Base(f.Path)
	}
	return out
}

func TestResolve_RecursiveGlob(t *testing.T) {
	tmp := t.TempDir()
	touch(t, filepath.Join(tmp, "cs240", "lec01.pdf"))
	touch(t, filepath.Join(tmp, "cs240", "deep", "lec02.pdf"))
	touch(t, filepath.Join(tmp, "notes.txt"))

	r := NewResolver(nil)
	files, err := r.Resolve([]string{filepath.Join(tmp, "**", "*.pdf")})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"lec01.pdf", "lec02.pdf"}, paths(files))
	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.Path))
	}
}

func TestResolve_PreservesFirstSeenOrderAndDedupes(t *testing.T) {
	tmp := t.TempDir()
	a := touch(t, filepath.Join(tmp, "a.pdf"))
	b := touch(t, filepath.Join(tmp, "b.pdf"))

	r := NewResolver(nil)
	// b listed explicitly first, then a glob that matches both again.
	files, err := r.Resolve([]string{b, filepath.Join(tmp, "*.pdf")})
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, b, files[0].Path)
	assert.Equal(t, a, files[1].Path)
}

func TestResolve_EmptyPatternIsNonFatal(t *testing.T) {
	tmp := t.TempDir()
	touch(t, filepath.Join(tmp, "a.pdf"))

	r := NewResolver(nil)
	files, err := r.Resolve([]string{
		filepath.Join(tmp, "missing", "*.pdf"),
		filepath.Join(tmp, "*.pdf"),
	})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestResolve_NoSourcesFound(t *testing.T) {
	r := NewResolver(nil)

	_, err := r.Resolve([]string{filepath.Join(t.TempDir(), "*.pdf")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pserrors.ErrNoSourcesFound))

	_, err = r.Resolve(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pserrors.ErrNoSourcesFound))
}

func TestResolve_SkipsDirectories(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "dir.pdf"), 0o755))
	touch(t, filepath.Join(tmp, "real.pdf"))

	r := NewResolver(nil)
	files, err := r.Resolve([]string{filepath.Join(tmp, "*.pdf")})
	require.NoError(t, err)
	assert.Equal(t, []string{"real.pdf"}, paths(files))
}
