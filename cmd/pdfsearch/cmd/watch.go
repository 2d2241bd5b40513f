package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Asaad47/pdf-search/internal/embed"
	"github.com/Asaad47/pdf-search/internal/extract"
	"github.com/Asaad47/pdf-search/internal/index"
	"github.com/Asaad47/pdf-search/internal/output"
	"github.com/Asaad47/pdf-search/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the index automatically when decks change",
		Long: `Builds the index, then watches the directories under the configured
pdf_paths and rebuilds whenever a PDF is added, changed, or removed.
Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, cleanup, err := setup(false)
			if err != nil {
				return err
			}
			defer cleanup()

			out := output.New(cmd.OutOrStdout())

			embedder, err := embed.NewEmbedder(cmd.Context(), cfg.Embeddings)
			if err != nil {
				return err
			}
			defer embedder.Close()

			builder := index.NewBuilder(cfg, extract.NewPDFExtractor(), embedder, logger)
			rebuild := func(ctx context.Context) error {
				stats, err := builder.Build(ctx)
				if err != nil {
					return err
				}
				out.Successf("Indexed %d page(s) from %d deck(s)", stats.Pages, stats.Sources)
				return nil
			}

			if err := rebuild(cmd.Context()); err != nil {
				return err
			}
			out.Status("", "Watching for changes. Press Ctrl-C to stop.")

			return watcher.New(cfg.PDFPaths, debounce, logger).Run(cmd.Context(), rebuild)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounceWindow,
		"How long to wait after the last change before rebuilding")

	return cmd
}
