package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Asaad47/pdf-search/internal/embed"
	pserrors "github.com/Asaad47/pdf-search/internal/errors"
	"github.com/Asaad47/pdf-search/internal/output"
	"github.com/Asaad47/pdf-search/internal/search"
	"github.com/Asaad47/pdf-search/internal/source"
	"github.com/Asaad47/pdf-search/internal/store"
	"github.com/Asaad47/pdf-search/internal/viewer"
)

// excerptRunes bounds the page text shown per result in verbose mode.
const excerptRunes = 300

// searchOptions holds CLI flags for search.
type searchOptions struct {
	k           int
	verbose     bool
	interactive bool
	exclude     string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the indexed decks",
		Long: `Embeds the query and returns the most similar indexed pages.
With no query argument the configured default_query is used.

Examples:
  pdfsearch search "tcp congestion control"
  pdfsearch search "b-trees" -k 10 -v
  pdfsearch search "scheduling" -i
  pdfsearch search "paging" -x networking,databases`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			return runSearch(cmd, query, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.k, "k", "k", 0, "Number of results (default from configuration)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show a text excerpt for each result")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Browse results in the interactive viewer")
	cmd.Flags().StringVarP(&opts.exclude, "exclude", "x", "", "Comma-separated class tokens of decks to exclude")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	interactive := opts.interactive && isatty.IsTerminal(os.Stdout.Fd())

	cfg, logger, cleanup, err := setup(interactive)
	if err != nil {
		return err
	}
	defer cleanup()

	out := output.New(cmd.OutOrStdout())

	if query == "" {
		query = cfg.DefaultQuery
	}
	if query == "" {
		return pserrors.Newf(pserrors.ErrCodeInvalidInput,
			"no query given and no default_query configured")
	}
	k := opts.k
	if k <= 0 {
		k = cfg.DefaultKResults
	}

	storePath, err := cfg.StorePath()
	if err != nil {
		return err
	}
	ix, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer ix.Close()

	embedder, err := embed.NewEmbedder(cmd.Context(), cfg.Embeddings)
	if err != nil {
		return err
	}
	defer embedder.Close()

	engine, err := search.NewEngine(ix, embedder, logger)
	if err != nil {
		return err
	}

	var exclude map[string]bool
	if opts.exclude != "" {
		tokens := strings.Split(opts.exclude, ",")
		var unmatched []string
		exclude, unmatched = search.ResolveExclusions(source.NewResolver(logger), tokens, cfg.PDFPaths)
		for _, token := range unmatched {
			out.Warningf("exclusion token %q matches no configured pattern", token)
		}
	}

	results, err := engine.Query(cmd.Context(), query, k, exclude)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		out.Status("", "No results.")
		return nil
	}

	if opts.interactive && !interactive {
		out.Warning("stdout is not a terminal; printing results instead")
	}
	if interactive {
		return viewer.Run(results, query, viewer.SystemOpener)
	}

	printResults(out, query, results, opts.verbose)
	return nil
}

func printResults(out *output.Writer, query string, results []store.Result, verbose bool) {
	out.Linef("Results for %q:", query)
	for _, r := range results {
		out.Linef("%2d. [%.3f] %s (page %d/%d)",
			r.Rank+1, r.Score, r.Entry.Source, r.Entry.PageNumber, r.Entry.TotalPages)
		if verbose {
			out.Linef("    %s", excerpt(r.Entry.Text, excerptRunes))
		}
	}
}

// excerpt collapses whitespace and truncates to at most n runes.
func excerpt(text string, n int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= n {
		return collapsed
	}
	return fmt.Sprintf("%s...", string(runes[:n]))
}
