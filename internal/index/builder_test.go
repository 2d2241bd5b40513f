package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asaad47/pdf-search/internal/config"
	"github.com/Asaad47/pdf-search/internal/embed"
	pserrors "github.com/Asaad47/pdf-search/internal/errors"
	"github.com/Asaad47/pdf-search/internal/extract"
	"github.com/Asaad47/pdf-search/internal/source"
	"github.com/Asaad47/pdf-search/internal/store"
)

// fakeExtractor returns canned pages keyed by source path.
type fakeExtractor struct {
	pages map[string][]string
}

func (f *fakeExtractor) Extract(_ context.Context, file source.File) ([]extract.PageRecord, error) {
	texts, ok := f.pages[file.Path]
	if !ok {
		return nil, fmt.Errorf("no pages for %s", file.Path)
	}
	records := make([]extract.PageRecord, len(texts))
	for i, text := range texts {
		records[i] = extract.PageRecord{
			Source:     file.Path,
			PageNumber: i + 1,
			TotalPages: len(texts),
			Text:       text,
		}
	}
	return records, nil
}

func testConfig(t *testing.T, docs map[string][]string) (*config.Config, *fakeExtractor) {
	t.Helper()
	dir := t.TempDir()

	fake := &fakeExtractor{pages: make(map[string][]string)}
	var patterns []string
	for name, texts := range docs {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
		fake.pages[path] = texts
		patterns = append(patterns, path)
	}

	return &config.Config{
		PDFPaths:        patterns,
		ChromaDir:       filepath.Join(dir, "chroma"),
		DefaultKResults: 5,
		Embeddings:      config.EmbeddingsConfig{Provider: "static", BatchSize: 2},
	}, fake
}

func TestBuildCreatesSearchableIndex(t *testing.T) {
	ctx := context.Background()
	cfg, fake := testConfig(t, map[string][]string{
		"deck.pdf": {"routing tables and longest prefix match", "congestion control in tcp"},
	})

	embedder := embed.NewStaticEmbedder()
	defer embedder.Close()

	stats, err := NewBuilder(cfg, fake, embedder, nil).Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Sources)
	assert.Equal(t, 2, stats.Pages)

	storePath, err := cfg.StorePath()
	require.NoError(t, err)

	ix, err := store.Open(storePath)
	require.NoError(t, err)
	defer ix.Close()

	count, err := ix.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	vec, err := embedder.Embed(ctx, "tcp congestion control")
	require.NoError(t, err)

	results, err := ix.Query(ctx, vec, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "congestion control in tcp", results[0].Entry.Text)
}

func TestBuildReplacesExistingIndex(t *testing.T) {
	ctx := context.Background()
	cfg, fake := testConfig(t, map[string][]string{
		"deck.pdf": {"first version page one", "first version page two", "first version page three"},
	})

	embedder := embed.NewStaticEmbedder()
	defer embedder.Close()

	_, err := NewBuilder(cfg, fake, embedder, nil).Build(ctx)
	require.NoError(t, err)

	// Shrink the deck and rebuild; the stale pages must be gone.
	for path := range fake.pages {
		fake.pages[path] = []string{"second version only page"}
	}
	stats, err := NewBuilder(cfg, fake, embedder, nil).Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pages)

	storePath, err := cfg.StorePath()
	require.NoError(t, err)
	ix, err := store.Open(storePath)
	require.NoError(t, err)
	defer ix.Close()

	count, err := ix.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBuildRejectsConcurrentBuild(t *testing.T) {
	cfg, fake := testConfig(t, map[string][]string{
		"deck.pdf": {"page"},
	})

	storePath, err := cfg.StorePath()
	require.NoError(t, err)

	held := flock.New(storePath + ".lock")
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer held.Unlock()

	embedder := embed.NewStaticEmbedder()
	defer embedder.Close()

	_, err = NewBuilder(cfg, fake, embedder, nil).Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, pserrors.ErrIndexLocked)
}

func TestBuildNoSourcesIsFatal(t *testing.T) {
	cfg := &config.Config{
		PDFPaths:        []string{filepath.Join(t.TempDir(), "*.pdf")},
		ChromaDir:       filepath.Join(t.TempDir(), "chroma"),
		DefaultKResults: 5,
	}

	embedder := embed.NewStaticEmbedder()
	defer embedder.Close()

	_, err := NewBuilder(cfg, &fakeExtractor{}, embedder, nil).Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, pserrors.ErrNoSourcesFound)
}

func TestBuildLeavesNoTempDirBehind(t *testing.T) {
	cfg, fake := testConfig(t, map[string][]string{
		"deck.pdf": {"page one", "page two"},
	})

	embedder := embed.NewStaticEmbedder()
	defer embedder.Close()

	_, err := NewBuilder(cfg, fake, embedder, nil).Build(context.Background())
	require.NoError(t, err)

	storePath, err := cfg.StorePath()
	require.NoError(t, err)
	matches, err := filepath.Glob(storePath + ".tmp-*")
	require.NoError(t, err)
	assert.Empty(t, matches)
}
