// Package embed provides text embedding providers for pdf-search.
// The Embedder interface is injected into the index builder and the
// query engine so both sides are guaranteed to use the same provider.
package embed

import (
	"context"
	"math"
)

// Common embedding constants.
const (
	// DefaultBatchSize is the default batch size for embedding requests.
	DefaultBatchSize = 32

	// StaticDimensions is the embedding dimension for the static embedder.
	StaticDimensions = 256

	// DefaultOllamaDimensions is the dimension of nomic-embed-text,
	// the default Ollama embedding model.
	DefaultOllamaDimensions = 768
)

// Embedder generates fixed-dimension vector embeddings for text.
// Implementations are pure functions of their input: the same text
// always yields the same vector for a given model.
type Embedder interface {
	// Embed generates the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the fixed embedding dimension.
	Dimensions() int

	// ModelName returns the model identifier.
	ModelName() string

	// Close releases resources.
	Close() error
}

// normalizeVector normalizes a vector to unit length.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}

	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v // Return as-is if zero vector
	}

	normalized := make([]float32, len(v))
	for i, val := range v {
		normalized[i] = float32(float64(val) / magnitude)
	}
	return normalized
}
