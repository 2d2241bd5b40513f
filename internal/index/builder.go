// Package index builds the persistent search index from resolved PDF
// sources. A build is destructive and atomic: the new index is written
// to a temp directory next to the store, then swapped in with a rename
// so a crash mid-build never leaves a half-written index behind.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/Asaad47/pdf-search/internal/config"
	"github.com/Asaad47/pdf-search/internal/embed"
	pserrors "github.com/Asaad47/pdf-search/internal/errors"
	"github.com/Asaad47/pdf-search/internal/extract"
	"github.com/Asaad47/pdf-search/internal/source"
	"github.com/Asaad47/pdf-search/internal/store"
)

// Stats summarizes a completed build.
type Stats struct {
	Sources  int
	Pages    int
	Duration time.Duration
}

// Builder runs the full indexing pipeline: resolve sources, extract
// page text, embed, and persist.
type Builder struct {
	cfg       *config.Config
	resolver  *source.Resolver
	extractor extract.TextExtractor
	embedder  embed.Embedder
	logger    *slog.Logger
}

// NewBuilder creates a Builder. The extractor and embedder are
// injected so tests can run the pipeline without PDF files or a
// provider process.
func NewBuilder(cfg *config.Config, extractor extract.TextExtractor, embedder embed.Embedder, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		cfg:       cfg,
		resolver:  source.NewResolver(logger),
		extractor: extractor,
		embedder:  embedder,
		logger:    logger,
	}
}

// Build runs the pipeline and replaces any existing index at the
// configured store path. Concurrent builds against the same store are
// rejected via an advisory lock.
func (b *Builder) Build(ctx context.Context) (*Stats, error) {
	start := time.Now()

	files, err := b.resolver.Resolve(b.cfg.PDFPaths)
	if err != nil {
		return nil, err
	}
	b.logger.Info("sources resolved", slog.Int("count", len(files)))

	pages, err := extract.NewAggregator(b.extractor, b.logger, 0).ExtractAll(ctx, files)
	if err != nil {
		return nil, err
	}
	b.logger.Info("pages extracted", slog.Int("count", len(pages)))

	entries, err := b.embedPages(ctx, pages)
	if err != nil {
		return nil, err
	}

	storePath, err := b.cfg.StorePath()
	if err != nil {
		return nil, err
	}

	lock := flock.New(storePath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, pserrors.Wrap(pserrors.ErrCodeIndexLocked, err)
	}
	if !locked {
		return nil, pserrors.Newf(pserrors.ErrCodeIndexLocked,
			"index at %s is locked by another process", storePath).
			WithSuggestion("Wait for the other pdfsearch index run to finish")
	}
	defer lock.Unlock()

	if err := b.persist(ctx, storePath, entries); err != nil {
		return nil, err
	}

	stats := &Stats{
		Sources:  len(files),
		Pages:    len(pages),
		Duration: time.Since(start),
	}
	b.logger.Info("index built",
		slog.Int("sources", stats.Sources),
		slog.Int("pages", stats.Pages),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}

// embedPages embeds page texts in provider-sized batches. Any provider
// failure aborts the build.
func (b *Builder) embedPages(ctx context.Context, pages []extract.PageRecord) ([]store.Entry, error) {
	batchSize := b.cfg.Embeddings.BatchSize
	if batchSize <= 0 {
		batchSize = embed.DefaultBatchSize
	}

	entries := make([]store.Entry, 0, len(pages))
	for lo := 0; lo < len(pages); lo += batchSize {
		hi := min(lo+batchSize, len(pages))

		texts := make([]string, hi-lo)
		for i, p := range pages[lo:hi] {
			texts[i] = p.Text
		}

		vectors, err := b.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, pserrors.Wrap(pserrors.ErrCodeEmbeddingFailed, err)
		}

		for i, p := range pages[lo:hi] {
			entries = append(entries, store.Entry{
				ID:         store.EntryID(p.Source, p.PageNumber, p.Text),
				Source:     p.Source,
				PageNumber: p.PageNumber,
				TotalPages: p.TotalPages,
				Text:       p.Text,
				Embedding:  vectors[i],
			})
		}
	}
	return entries, nil
}

// persist writes the new index to a temp directory and swaps it in.
func (b *Builder) persist(ctx context.Context, storePath string, entries []store.Entry) error {
	tmpDir := fmt.Sprintf("%s.tmp-%d", storePath, os.Getpid())
	if err := os.RemoveAll(tmpDir); err != nil {
		return pserrors.Wrap(pserrors.ErrCodeIndexPersist, err)
	}
	defer os.RemoveAll(tmpDir)

	ix, err := store.Create(tmpDir, b.embedder.Dimensions(), b.embedder.ModelName())
	if err != nil {
		return pserrors.Wrap(pserrors.ErrCodeIndexPersist, err)
	}

	if err := ix.Add(ctx, entries); err != nil {
		ix.Close()
		return pserrors.Wrap(pserrors.ErrCodeIndexPersist, err)
	}
	if err := ix.Save(); err != nil {
		ix.Close()
		return pserrors.Wrap(pserrors.ErrCodeIndexPersist, err)
	}
	if err := ix.Close(); err != nil {
		return pserrors.Wrap(pserrors.ErrCodeIndexPersist, err)
	}

	if err := os.RemoveAll(storePath); err != nil {
		return pserrors.Wrap(pserrors.ErrCodeIndexPersist, err)
	}
	if err := os.Rename(tmpDir, storePath); err != nil {
		return pserrors.Wrap(pserrors.ErrCodeIndexPersist, err)
	}
	return nil
}
