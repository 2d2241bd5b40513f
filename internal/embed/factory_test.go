package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asaad47/pdf-search/internal/config"
)

func TestNewEmbedder_StaticDefault(t *testing.T) {
	e, err := NewEmbedder(context.Background(), config.EmbeddingsConfig{Provider: "static"})
	require.NoError(t, err)
	defer func() { _ = e.Close() }()

	assert.Equal(t, "static", e.ModelName())
	assert.Equal(t, StaticDimensions, e.Dimensions())
}

func TestNewEmbedder_UnknownProvider(t *testing.T) {
	_, err := NewEmbedder(context.Background(), config.EmbeddingsConfig{Provider: "chroma"})
	assert.Error(t, err)
}

func TestOllamaEmbedder_BatchAgainstFakeServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := embedResponse{Embeddings: make([][]float32, len(req.Input))}
		for i := range req.Input {
			resp.Embeddings[i] = []float32{float32(len(req.Input[i])), 1, 0, 0}
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	e, err := NewOllamaEmbedder(context.Background(), OllamaConfig{
		Host:      srv.URL,
		Model:     "nomic-embed-text",
		BatchSize: 2,
	})
	require.NoError(t, err)
	defer func() { _ = e.Close() }()

	// Dimension was auto-detected from the probe request.
	assert.Equal(t, 4, e.Dimensions())

	vectors, err := e.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, float32(1), vectors[0][0])
	assert.Equal(t, float32(2), vectors[1][0])
	assert.Equal(t, float32(3), vectors[2][0])
}

func TestOllamaEmbedder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaEmbedder(context.Background(), OllamaConfig{Host: srv.URL})
	assert.Error(t, err)
}
