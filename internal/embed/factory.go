package embed

import (
	"context"

	"github.com/Asaad47/pdf-search/internal/config"
	pserrors "github.com/Asaad47/pdf-search/internal/errors"
)

// NewEmbedder constructs the embedding provider selected by the
// configuration. Both the index builder and the query engine must use
// this factory so the store is always queried with the provider it was
// built with.
func NewEmbedder(ctx context.Context, cfg config.EmbeddingsConfig) (Embedder, error) {
	switch cfg.Provider {
	case "", "static":
		return NewStaticEmbedder(), nil
	case "ollama":
		embedder, err := NewOllamaEmbedder(ctx, OllamaConfig{
			Host:       cfg.OllamaHost,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			BatchSize:  cfg.BatchSize,
		})
		if err != nil {
			return nil, pserrors.Wrap(pserrors.ErrCodeEmbeddingFailed, err).
				WithSuggestion("check that Ollama is running, or set embeddings.provider to static")
		}
		return embedder, nil
	default:
		return nil, pserrors.Newf(pserrors.ErrCodeConfigInvalid,
			"unknown embeddings provider %q", cfg.Provider)
	}
}
