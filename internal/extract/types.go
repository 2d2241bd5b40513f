// Package extract turns resolved source files into ordered page-level
// text records.
package extract

import (
	"context"

	"github.com/Asaad47/pdf-search/internal/source"
)

// PageRecord is one page's extracted text plus positional metadata.
// Records are never mutated after creation.
type PageRecord struct {
	// Source is the absolute path of the originating file.
	Source string
	// PageNumber is the 1-based page number as reported by the backend.
	PageNumber int
	// TotalPages is the page count of the source as reported by the backend.
	TotalPages int
	// Text is the extracted page text.
	Text string
}

// TextExtractor extracts the ordered page sequence of a single source.
// Implementations are injected so the pipeline can be tested with
// deterministic fakes.
type TextExtractor interface {
	// Extract returns the pages of the given source in page order.
	Extract(ctx context.Context, src source.File) ([]PageRecord, error)
}
