// Package search embeds query strings and runs filtered k-NN searches
// against the persistent index.
package search

import (
	"context"
	"log/slog"

	"github.com/Asaad47/pdf-search/internal/embed"
	pserrors "github.com/Asaad47/pdf-search/internal/errors"
	"github.com/Asaad47/pdf-search/internal/store"
)

// Engine runs semantic queries against an opened index using the same
// embedding provider the index was built with.
type Engine struct {
	ix       *store.Index
	embedder embed.Embedder
	logger   *slog.Logger
}

// NewEngine creates a query engine. The embedder's dimension must
// match the index's; a mismatch means the index was built with a
// different provider and every query would be garbage.
func NewEngine(ix *store.Index, embedder embed.Embedder, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if embedder.Dimensions() != ix.Dimensions() {
		return nil, pserrors.Newf(pserrors.ErrCodeDimensionMismatch,
			"embedding provider dimension %d does not match index dimension %d",
			embedder.Dimensions(), ix.Dimensions()).
			WithSuggestion("Rebuild the index with 'pdfsearch index' using the current provider")
	}
	return &Engine{ix: ix, embedder: embedder, logger: logger}, nil
}

// Query embeds the query text and returns up to k nearest entries,
// excluding any whose source is in exclude. Zero results is a valid
// outcome, not an error.
func (e *Engine) Query(ctx context.Context, query string, k int, exclude map[string]bool) ([]store.Result, error) {
	if query == "" {
		return nil, pserrors.Newf(pserrors.ErrCodeInvalidInput, "query text must not be empty")
	}

	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, pserrors.Wrap(pserrors.ErrCodeEmbeddingFailed, err)
	}

	results, err := e.ix.Query(ctx, vector, k, exclude)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		e.logger.Info("query matched nothing",
			slog.String("query", query),
			slog.Int("excluded_sources", len(exclude)))
	}
	return results, nil
}
