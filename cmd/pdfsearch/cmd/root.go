// Package cmd provides the CLI commands for pdfsearch.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Asaad47/pdf-search/internal/config"
	"github.com/Asaad47/pdf-search/internal/logging"
	"github.com/Asaad47/pdf-search/pkg/version"
)

var (
	configPath string
	debugMode  bool
)

// NewRootCmd creates the root command for the pdfsearch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdfsearch",
		Short: "Semantic search over PDF slide decks",
		Long: `pdfsearch indexes the text of PDF slide decks page by page and
answers natural-language queries with the most similar pages.

Point pdf_paths in config.yaml at your decks, run 'pdfsearch index'
once, then 'pdfsearch search "your question"'.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("pdfsearch version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFile, "Path to configuration file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command with interrupt-aware context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	err := root.ExecuteContext(ctx)
	if err != nil && ctx.Err() == nil {
		root.PrintErrln("Error:", err.Error())
	}
	return err
}

// setup loads configuration and installs the process logger. The
// returned cleanup closes the log file.
func setup(interactive bool) (*config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logCfg := logging.Config{
		Level:         cfg.Logging.Level,
		FilePath:      cfg.Logging.File,
		WriteToStderr: cfg.Logging.WriteToStderr,
	}
	if logCfg.FilePath == "" {
		logCfg.FilePath = logging.DefaultLogPath()
	}
	if debugMode {
		logCfg.Level = "debug"
	}
	if interactive {
		// The alternate screen owns the terminal while the viewer runs.
		logCfg.WriteToStderr = false
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.SetDefault(logger)

	return cfg, logger, cleanup, nil
}
