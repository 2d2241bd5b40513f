package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	pserrors "github.com/Asaad47/pdf-search/internal/errors"
)

// Index combines the HNSW vector store and the SQLite metadata store
// into one persistent searchable index rooted at a directory.
type Index struct {
	dir     string
	vectors *HNSWStore
	meta    *MetadataStore
}

// Create initializes a fresh index in dir. The directory is created if
// needed; any prior contents are not touched, so callers building a
// replacement index should point Create at an empty directory.
func Create(dir string, dimensions int, model string) (*Index, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	vectors, err := NewHNSWStore(DefaultVectorStoreConfig(dimensions))
	if err != nil {
		return nil, err
	}

	meta, err := OpenMetadataStore(filepath.Join(dir, MetadataFile))
	if err != nil {
		vectors.Close()
		return nil, err
	}

	ctx := context.Background()
	if err := meta.SetState(ctx, StateKeyDimension, strconv.Itoa(dimensions)); err != nil {
		meta.Close()
		vectors.Close()
		return nil, err
	}
	if err := meta.SetState(ctx, StateKeyModel, model); err != nil {
		meta.Close()
		vectors.Close()
		return nil, err
	}

	return &Index{dir: dir, vectors: vectors, meta: meta}, nil
}

// Open loads an existing index from dir. The metadata database is the
// presence sentinel; a missing one means no index was ever built here.
func Open(dir string) (*Index, error) {
	metaPath := filepath.Join(dir, MetadataFile)
	if _, err := os.Stat(metaPath); err != nil {
		if os.IsNotExist(err) {
			return nil, pserrors.Newf(pserrors.ErrCodeIndexNotFound,
				"no index found at %s", dir).
				WithSuggestion("Run 'pdfsearch index' to build the index first")
		}
		return nil, fmt.Errorf("stat index: %w", err)
	}

	meta, err := OpenMetadataStore(metaPath)
	if err != nil {
		return nil, err
	}

	dimStr, err := meta.GetState(context.Background(), StateKeyDimension)
	if err != nil {
		meta.Close()
		return nil, err
	}
	dimensions, err := strconv.Atoi(dimStr)
	if err != nil || dimensions <= 0 {
		meta.Close()
		return nil, pserrors.Newf(pserrors.ErrCodeIndexPersist,
			"index at %s has invalid embedding dimension %q", dir, dimStr)
	}

	vectors, err := NewHNSWStore(DefaultVectorStoreConfig(dimensions))
	if err != nil {
		meta.Close()
		return nil, err
	}
	if err := vectors.Load(filepath.Join(dir, VectorFile)); err != nil {
		meta.Close()
		vectors.Close()
		return nil, pserrors.Wrap(pserrors.ErrCodeIndexPersist, err)
	}

	return &Index{dir: dir, vectors: vectors, meta: meta}, nil
}

// Dir returns the index root directory.
func (ix *Index) Dir() string { return ix.dir }

// Dimensions returns the embedding dimension of the index.
func (ix *Index) Dimensions() int { return ix.vectors.Dimensions() }

// Model returns the embedding model name recorded at build time.
func (ix *Index) Model(ctx context.Context) (string, error) {
	return ix.meta.GetState(ctx, StateKeyModel)
}

// Count returns the number of indexed entries.
func (ix *Index) Count(ctx context.Context) (int, error) {
	return ix.meta.Count(ctx)
}

// Sources returns the distinct indexed source paths.
func (ix *Index) Sources(ctx context.Context) ([]string, error) {
	return ix.meta.Sources(ctx)
}

// Add writes entries to both stores. Ordinals on the passed entries are
// ignored; the metadata store assigns them by insertion order.
func (ix *Index) Add(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	if err := ix.meta.PutEntries(ctx, entries); err != nil {
		return err
	}

	ids := make([]string, len(entries))
	vectors := make([][]float32, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		vectors[i] = e.Embedding
	}
	return ix.vectors.Add(ids, vectors)
}

// Save persists the vector store to disk. The metadata store writes
// through on every Add.
func (ix *Index) Save() error {
	return ix.vectors.Save(filepath.Join(ix.dir, VectorFile))
}

// Query returns up to k entries nearest to the query vector, best
// first. Sources named in exclude are filtered out before ranking, so
// excluded pages never displace eligible ones. Equal scores are broken
// by insertion ordinal. An empty result is not an error.
func (ix *Index) Query(ctx context.Context, query []float32, k int, exclude map[string]bool) ([]Result, error) {
	if k <= 0 {
		return nil, pserrors.Newf(pserrors.ErrCodeInvalidInput, "k must be positive, got %d", k)
	}
	if len(query) != ix.vectors.Dimensions() {
		return nil, pserrors.Newf(pserrors.ErrCodeDimensionMismatch,
			"query dimension %d does not match index dimension %d", len(query), ix.vectors.Dimensions())
	}

	if len(exclude) == 0 {
		return ix.queryGraph(ctx, query, k)
	}
	return ix.queryFiltered(ctx, query, k, exclude)
}

// queryGraph is the fast path: approximate nearest neighbors from the
// HNSW graph, hydrated from the metadata store.
func (ix *Index) queryGraph(ctx context.Context, query []float32, k int) ([]Result, error) {
	hits, err := ix.vectors.Search(query, k)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		entry, err := ix.meta.GetEntry(ctx, hit.ID)
		if err != nil {
			return nil, fmt.Errorf("load entry %s: %w", hit.ID, err)
		}
		results = append(results, Result{Entry: *entry, Score: hit.Score})
	}

	sortResults(results)
	for i := range results {
		results[i].Rank = i
	}
	return results, nil
}

// queryFiltered is the exclusion path: an exact cosine scan over the
// eligible entries. The graph cannot filter during traversal, and
// filtering after the fact would let excluded pages crowd out eligible
// ones inside the k-neighborhood.
func (ix *Index) queryFiltered(ctx context.Context, query []float32, k int, exclude map[string]bool) ([]Result, error) {
	entries, err := ix.meta.AllEntries(ctx)
	if err != nil {
		return nil, err
	}

	normalized := make([]float32, len(query))
	copy(normalized, query)
	normalizeVectorInPlace(normalized)

	results := make([]Result, 0, k)
	for _, e := range entries {
		if exclude[e.Source] {
			continue
		}
		vec := make([]float32, len(e.Embedding))
		copy(vec, e.Embedding)
		normalizeVectorInPlace(vec)
		results = append(results, Result{
			Entry: e,
			Score: distanceToScore(cosineDistance(normalized, vec), "cos"),
		})
	}

	sortResults(results)
	if len(results) > k {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i
	}
	return results, nil
}

// Close closes both stores.
func (ix *Index) Close() error {
	vErr := ix.vectors.Close()
	mErr := ix.meta.Close()
	if vErr != nil {
		return vErr
	}
	return mErr
}

// sortResults orders by score descending, then insertion ordinal
// ascending for deterministic ties.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.Ordinal < results[j].Entry.Ordinal
	})
}

// cosineDistance computes 1 - dot(a, b) for unit vectors.
func cosineDistance(a, b []float32) float32 {
	var dot float32
	for i := range a {
		dot += a[i] * b[i]
	}
	return 1 - dot
}
