package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"tourli-ai/internal/app"
	"tourli-ai/internal/config"
	"tourli-ai/internal/contextutil"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tourli",
		Short: "Morocco travel question answering from the command line",
		Long: `tourli answers travel questions from a curated question/answer corpus.
It reads the same environment variables (and .env file) as the API server.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newChatCmd(), newAskCmd(), newImportCmd(), newSourcesCmd(), newExportCmd(), newSearchCmd())
	return root
}

// setup loads configuration and returns a context carrying a stderr logger,
// so command output on stdout stays clean.
func setup(cmd *cobra.Command) (context.Context, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = slog.LevelDebug
	} else if cfg.LogLevel < slog.LevelWarn {
		cfg.LogLevel = slog.LevelWarn
	}
	logger := app.NewLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return contextutil.WithLogger(cmd.Context(), logger), cfg, nil
}

// buildApp loads configuration and the engine.
func buildApp(cmd *cobra.Command) (context.Context, *app.App, error) {
	ctx, cfg, err := setup(cmd)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.Build(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize chatbot: %w", err)
	}
	return ctx, a, nil
}
