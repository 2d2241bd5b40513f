package extract

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/Asaad47/pdf-search/internal/source"
)

// PDFExtractor extracts page-level plain text from PDF files using
// ledongthuc/pdf. Page numbers and total pages are taken as reported
// by the library; continuity is not validated.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF text extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

var _ TextExtractor = (*PDFExtractor)(nil)

// Extract returns one PageRecord per page of the PDF, in page order.
func (e *PDFExtractor) Extract(ctx context.Context, src source.File) ([]PageRecord, error) {
	f, reader, err := pdf.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", src.Path, err)
	}
	defer func() { _ = f.Close() }()

	total := reader.NumPage()
	records := make([]PageRecord, 0, total)

	for i := 1; i <= total; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d of %s: %w", i, src.Path, err)
		}

		records = append(records, PageRecord{
			Source:     src.Path,
			PageNumber: i,
			TotalPages: total,
			Text:       text,
		})
	}

	return records, nil
}
