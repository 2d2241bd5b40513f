// Package errors provides structured error handling for pdf-search.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Source and index IO errors
//   - 3XX: Embedding provider errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates source file and index store I/O errors.
	CategoryIO Category = "IO"
	// CategoryEmbedding indicates embedding provider errors.
	CategoryEmbedding Category = "EMBEDDING"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Source and index errors (200-299)
	ErrCodeNoSourcesFound       = "ERR_201_NO_SOURCES_FOUND"
	ErrCodeNoDocumentsExtracted = "ERR_202_NO_DOCUMENTS_EXTRACTED"
	ErrCodeExtractFailed        = "ERR_203_EXTRACT_FAILED"
	ErrCodeIndexPersist         = "ERR_204_INDEX_PERSIST"
	ErrCodeIndexNotFound        = "ERR_205_INDEX_NOT_FOUND"
	ErrCodeIndexLocked          = "ERR_206_INDEX_LOCKED"

	// Embedding errors (300-399)
	ErrCodeEmbeddingFailed = "ERR_301_EMBEDDING_FAILED"

	// Validation errors (400-499)
	ErrCodeInvalidInput      = "ERR_401_INVALID_INPUT"
	ErrCodeDimensionMismatch = "ERR_402_DIMENSION_MISMATCH"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryEmbedding
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode derives severity from error code.
// Per-source extraction failures are the only recoverable code;
// everything else aborts the operation that raised it.
func severityFromCode(code string) Severity {
	if code == ErrCodeExtractFailed {
		return SeverityError
	}
	return SeverityFatal
}
