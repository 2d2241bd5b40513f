package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Asaad47/pdf-search/internal/embed"
	"github.com/Asaad47/pdf-search/internal/extract"
	"github.com/Asaad47/pdf-search/internal/index"
	"github.com/Asaad47/pdf-search/internal/output"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Build the search index from the configured PDF decks",
		Long: `Resolves the configured pdf_paths globs, extracts every page's
text, embeds it, and writes a fresh index to chroma_dir. Any existing
index is replaced atomically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, cleanup, err := setup(false)
			if err != nil {
				return err
			}
			defer cleanup()

			out := output.New(cmd.OutOrStdout())
			out.Statusf("", "Indexing decks from %d pattern(s)...", len(cfg.PDFPaths))

			embedder, err := embed.NewEmbedder(cmd.Context(), cfg.Embeddings)
			if err != nil {
				return err
			}
			defer embedder.Close()

			builder := index.NewBuilder(cfg, extract.NewPDFExtractor(), embedder, logger)
			stats, err := builder.Build(cmd.Context())
			if err != nil {
				return err
			}

			out.Successf("Indexed %d page(s) from %d deck(s) in %s",
				stats.Pages, stats.Sources, stats.Duration.Round(time.Millisecond))
			slog.Info("index_command_complete",
				slog.Int("sources", stats.Sources),
				slog.Int("pages", stats.Pages))
			return nil
		},
	}
}
