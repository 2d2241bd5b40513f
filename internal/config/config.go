// Package config loads the pdf-search configuration file.
//
// Configuration is read once at process start into an explicit Config
// struct that is passed into component constructors; there is no
// ambient global configuration state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	pserrors "github.com/Asaad47/pdf-search/internal/errors"
)

// DefaultConfigFile is the config file name looked up in the working
// directory when no explicit path is given.
const DefaultConfigFile = "config.yaml"

// Config represents the complete pdf-search configuration.
type Config struct {
	// PDFPaths is the ordered list of glob patterns (recursive ** supported)
	// that resolve to the PDF slide decks to index.
	PDFPaths []string `yaml:"pdf_paths"`

	// ChromaDir is the directory holding the persisted vector index.
	ChromaDir string `yaml:"chroma_dir"`

	// DefaultQuery is used by the search command when no query argument is given.
	DefaultQuery string `yaml:"default_query"`

	// DefaultKResults is the default number of results to return.
	DefaultKResults int `yaml:"default_k_results"`

	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider selects the embedding backend: "static" (default) or "ollama".
	Provider string `yaml:"provider"`
	// Model is the provider-specific model name.
	Model string `yaml:"model"`
	// Dimensions overrides the embedding dimension (0 = provider default).
	Dimensions int `yaml:"dimensions"`
	// BatchSize is the number of texts embedded per provider call.
	BatchSize int `yaml:"batch_size"`
	// OllamaHost is the Ollama API endpoint (default: http://localhost:11434).
	OllamaHost string `yaml:"ollama_host"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	File          string `yaml:"file"`
	WriteToStderr bool   `yaml:"write_to_stderr"`
}

// Load reads and validates the configuration at path.
// A missing or malformed file is a fatal startup condition.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pserrors.New(pserrors.ErrCodeConfigNotFound,
				fmt.Sprintf("configuration file not found: %s", path), err).
				WithSuggestion("create a config.yaml with pdf_paths and chroma_dir")
		}
		return nil, pserrors.Wrap(pserrors.ErrCodeConfigInvalid, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, pserrors.New(pserrors.ErrCodeConfigInvalid,
			fmt.Sprintf("malformed configuration: %v", err), err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaults returns a Config with defaults applied before unmarshalling,
// so omitted keys keep their default values.
func defaults() *Config {
	return &Config{
		DefaultKResults: 5,
		Embeddings: EmbeddingsConfig{
			Provider:   "static",
			BatchSize:  32,
			OllamaHost: "http://localhost:11434",
		},
		Logging: LoggingConfig{
			Level:         "info",
			WriteToStderr: true,
		},
	}
}

// validate checks invariants that must hold before any work starts.
func (c *Config) validate() error {
	if c.ChromaDir == "" {
		return pserrors.Newf(pserrors.ErrCodeConfigInvalid, "chroma_dir must be set")
	}
	if c.DefaultKResults < 1 {
		return pserrors.Newf(pserrors.ErrCodeConfigInvalid,
			"default_k_results must be >= 1, got %d", c.DefaultKResults)
	}
	switch c.Embeddings.Provider {
	case "static", "ollama":
	default:
		return pserrors.Newf(pserrors.ErrCodeConfigInvalid,
			"unknown embeddings provider %q (want static or ollama)", c.Embeddings.Provider)
	}
	return nil
}

// StorePath returns the absolute path of the persisted index directory.
func (c *Config) StorePath() (string, error) {
	abs, err := filepath.Abs(c.ChromaDir)
	if err != nil {
		return "", pserrors.Wrap(pserrors.ErrCodeConfigInvalid, err)
	}
	return abs, nil
}
