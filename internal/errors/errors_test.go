package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryAndSeverity(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category Category
		severity Severity
	}{
		{"config", ErrCodeConfigInvalid, CategoryConfig, SeverityFatal},
		{"no sources", ErrCodeNoSourcesFound, CategoryIO, SeverityFatal},
		{"extract failed recoverable", ErrCodeExtractFailed, CategoryIO, SeverityError},
		{"embedding", ErrCodeEmbeddingFailed, CategoryEmbedding, SeverityFatal},
		{"dimension mismatch", ErrCodeDimensionMismatch, CategoryValidation, SeverityFatal},
		{"internal", ErrCodeInternal, CategoryInternal, SeverityFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
		})
	}
}

func TestSearchError_IsMatchesByCode(t *testing.T) {
	err := New(ErrCodeIndexNotFound, "no index at /tmp/x", nil)

	assert.True(t, stderrors.Is(err, ErrIndexNotFound))
	assert.False(t, stderrors.Is(err, ErrNoSourcesFound))
}

func TestSearchError_IsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeNoSourcesFound, "no sources", nil)
	wrapped := fmt.Errorf("build failed: %w", inner)

	assert.True(t, stderrors.Is(wrapped, ErrNoSourcesFound))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("disk exploded")
	err := Wrap(ErrCodeIndexPersist, cause)

	require.NotNil(t, err)
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.Contains(t, err.Error(), ErrCodeIndexPersist)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeIndexPersist, nil))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(New(ErrCodeIndexPersist, "x", nil)))
	assert.False(t, IsFatal(New(ErrCodeExtractFailed, "x", nil)))
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(stderrors.New("plain")))
}

func TestWithSuggestion(t *testing.T) {
	err := New(ErrCodeIndexNotFound, "no index", nil).
		WithSuggestion("run 'pdfsearch index' first")

	assert.Equal(t, "run 'pdfsearch index' first", GetSuggestion(err))
	assert.Equal(t, "", GetSuggestion(stderrors.New("plain")))
}
