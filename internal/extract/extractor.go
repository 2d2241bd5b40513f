package extract

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	pserrors "github.com/Asaad47/pdf-search/internal/errors"
	"github.com/Asaad47/pdf-search/internal/source"
)

// Aggregator runs a TextExtractor over a resolved source list and
// accumulates the page records in source order, then page order.
// Per-source failures are recovered: the failing source contributes an
// empty sequence and extraction continues.
type Aggregator struct {
	extractor TextExtractor
	logger    *slog.Logger
	workers   int
}

// NewAggregator creates an Aggregator. workers <= 0 uses NumCPU.
func NewAggregator(extractor TextExtractor, logger *slog.Logger, workers int) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Aggregator{extractor: extractor, logger: logger, workers: workers}
}

// ExtractAll extracts every source in parallel and merges the results
// back into source order. An empty aggregate sequence is fatal.
func (a *Aggregator) ExtractAll(ctx context.Context, sources []source.File) ([]PageRecord, error) {
	// Per-source slots keep the merge deterministic regardless of
	// which worker finishes first.
	perSource := make([][]PageRecord, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, src := range sources {
		g.Go(func() error {
			pages, err := a.extractor.Extract(gctx, src)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				// Recovered: this source contributes nothing.
				a.logger.Error("failed to extract source",
					slog.String("source", src.Path),
					slog.String("error", err.Error()))
				return nil
			}
			a.logger.Info("extracted source",
				slog.String("source", src.Path),
				slog.Int("pages", len(pages)))
			perSource[i] = pages
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []PageRecord
	for _, pages := range perSource {
		records = append(records, pages...)
	}

	if len(records) == 0 {
		return nil, pserrors.Newf(pserrors.ErrCodeNoDocumentsExtracted,
			"no pages extracted from %d source(s)", len(sources)).
			WithSuggestion("check that the PDF files exist and are readable")
	}

	return records, nil
}
