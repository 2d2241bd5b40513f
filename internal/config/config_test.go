package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pserrors "github.com/Asaad47/pdf-search/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
pdf_paths:
  - "slides/**/*.pdf"
  - "extra/intro.pdf"
chroma_dir: chroma_db
default_query: "explain virtual memory"
default_k_results: 7
embeddings:
  provider: ollama
  model: nomic-embed-text
  ollama_host: http://localhost:11434
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"slides/**/*.pdf", "extra/intro.pdf"}, cfg.PDFPaths)
	assert.Equal(t, "chroma_db", cfg.ChromaDir)
	assert.Equal(t, "explain virtual memory", cfg.DefaultQuery)
	assert.Equal(t, 7, cfg.DefaultKResults)
	assert.Equal(t, "ollama", cfg.Embeddings.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embeddings.Model)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
pdf_paths: ["slides/*.pdf"]
chroma_dir: chroma_db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.DefaultKResults)
	assert.Equal(t, "static", cfg.Embeddings.Provider)
	assert.Equal(t, 32, cfg.Embeddings.BatchSize)
	assert.Equal(t, "http://localhost:11434", cfg.Embeddings.OllamaHost)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pserrors.ErrConfigNotFound))
}

func TestLoad_MalformedYAMLIsFatal(t *testing.T) {
	path := writeConfig(t, "pdf_paths: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pserrors.ErrConfigInvalid))
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing chroma_dir", `pdf_paths: ["a.pdf"]`},
		{"bad k", "pdf_paths: [\"a.pdf\"]\nchroma_dir: db\ndefault_k_results: 0"},
		{"bad provider", "pdf_paths: [\"a.pdf\"]\nchroma_dir: db\nembeddings:\n  provider: chroma"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, pserrors.ErrConfigInvalid))
		})
	}
}

func TestStorePath_IsAbsolute(t *testing.T) {
	cfg := &Config{ChromaDir: "chroma_db"}
	abs, err := cfg.StorePath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))
}
