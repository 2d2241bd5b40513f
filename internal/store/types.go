// Package store provides the persistent vector index: an HNSW graph
// for nearest-neighbor search plus a SQLite metadata database holding
// each indexed entry's text, source metadata, and embedding.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Store file names inside the index directory. MetadataFile doubles as
// the presence sentinel: the store exists iff it does.
const (
	MetadataFile = "metadata.db"
	VectorFile   = "vectors.hnsw"
)

// State keys persisted in the metadata database.
const (
	// StateKeyDimension stores the embedding dimension used for the index.
	StateKeyDimension = "index_embedding_dimension"
	// StateKeyModel stores the embedding model name used for the index.
	StateKeyModel = "index_embedding_model"
)

// Entry is one indexed page: its stable identity, embedding, text, and
// source metadata. Ordinal is the arrival position within the build and
// breaks ties between equal-distance results.
type Entry struct {
	ID         string
	Ordinal    int
	Source     string
	PageNumber int
	TotalPages int
	Text       string
	Embedding  []float32
}

// EntryID derives the content-addressable identity of a page. It is
// stable across rebuilds of identical inputs.
func EntryID(source string, pageNumber int, text string) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s\x00%d\x00", source, pageNumber)
	_, _ = h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Result is a single query result: the matched entry with its
// similarity score in [0,1] and zero-based relevance rank.
type Result struct {
	Entry Entry
	Score float32
	Rank  int
}

// VectorStoreConfig configures the HNSW vector store.
type VectorStoreConfig struct {
	// Dimensions is the fixed vector dimension.
	Dimensions int

	// Metric is the distance metric: "cos" (cosine) or "l2" (euclidean).
	Metric string

	// M is HNSW max connections per layer.
	M int

	// EfSearch is HNSW query-time search width.
	EfSearch int
}

// DefaultVectorStoreConfig returns sensible defaults for the vector store.
func DefaultVectorStoreConfig(dimensions int) VectorStoreConfig {
	return VectorStoreConfig{
		Dimensions: dimensions,
		Metric:     "cos",
		M:          16,
		EfSearch:   20,
	}
}

// VectorResult is a single vector search result.
type VectorResult struct {
	ID       string  // Entry ID
	Distance float32 // Lower is more similar (0-2 for cosine)
	Score    float32 // Normalized similarity (0-1)
}
