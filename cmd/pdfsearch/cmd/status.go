package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Asaad47/pdf-search/internal/output"
	"github.com/Asaad47/pdf-search/internal/store"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the index contains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, cleanup, err := setup(false)
			if err != nil {
				return err
			}
			defer cleanup()

			out := output.New(cmd.OutOrStdout())

			storePath, err := cfg.StorePath()
			if err != nil {
				return err
			}
			ix, err := store.Open(storePath)
			if err != nil {
				return err
			}
			defer ix.Close()

			ctx := cmd.Context()
			count, err := ix.Count(ctx)
			if err != nil {
				return err
			}
			sources, err := ix.Sources(ctx)
			if err != nil {
				return err
			}
			model, err := ix.Model(ctx)
			if err != nil {
				return err
			}

			out.Linef("Index: %s (%s)", storePath, dirSize(storePath))
			out.Linef("Model: %s (%d dimensions)", model, ix.Dimensions())
			out.Linef("Pages: %d across %d deck(s)", count, len(sources))
			for _, src := range sources {
				out.Linef("  %s", src)
			}
			return nil
		},
	}
}

// dirSize reports the total on-disk size of the store, human readable.
func dirSize(dir string) string {
	var total int64
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})

	switch {
	case total >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(total)/(1<<20))
	case total >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(total)/(1<<10))
	default:
		return fmt.Sprintf("%d B", total)
	}
}
