package errors

import (
	"fmt"
)

// SearchError is the structured error type for pdf-search.
// It provides context for error handling, logging, and user presentation.
type SearchError struct {
	// Code is the unique error code (e.g., "ERR_205_INDEX_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Embedding, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SearchError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with SearchError.
func (e *SearchError) Is(target error) bool {
	if t, ok := target.(*SearchError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *SearchError) WithSuggestion(suggestion string) *SearchError {
	e.Suggestion = suggestion
	return e
}

// New creates a new SearchError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *SearchError {
	return &SearchError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Newf creates a new SearchError with a formatted message and no cause.
func Newf(code string, format string, args ...any) *SearchError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates a SearchError from an existing error.
// The error's message becomes the SearchError message.
func Wrap(code string, err error) *SearchError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// Code sentinels for errors.Is checks. Only the code participates in
// matching, so these carry no message.
var (
	ErrConfigNotFound       = &SearchError{Code: ErrCodeConfigNotFound}
	ErrConfigInvalid        = &SearchError{Code: ErrCodeConfigInvalid}
	ErrNoSourcesFound       = &SearchError{Code: ErrCodeNoSourcesFound}
	ErrNoDocumentsExtracted = &SearchError{Code: ErrCodeNoDocumentsExtracted}
	ErrIndexPersist         = &SearchError{Code: ErrCodeIndexPersist}
	ErrIndexNotFound        = &SearchError{Code: ErrCodeIndexNotFound}
	ErrIndexLocked          = &SearchError{Code: ErrCodeIndexLocked}
	ErrEmbeddingFailed      = &SearchError{Code: ErrCodeEmbeddingFailed}
	ErrDimensionMismatch    = &SearchError{Code: ErrCodeDimensionMismatch}
)

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if se, ok := err.(*SearchError); ok {
		return se.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a SearchError.
// Returns empty string if not a SearchError.
func GetCode(err error) string {
	if se, ok := err.(*SearchError); ok {
		return se.Code
	}
	return ""
}

// GetSuggestion extracts the suggestion from a SearchError.
// Returns empty string if not a SearchError or none was set.
func GetSuggestion(err error) string {
	if se, ok := err.(*SearchError); ok {
		return se.Suggestion
	}
	return ""
}
