// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/folio/internal/bootstrap"
	"github.com/taibuivan/folio/internal/platform/config"
)

// cli carries the state shared by every subcommand of one invocation.
type cli struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	root := &cobra.Command{
		Use:           "folioctl",
		Short:         "Administer a Folio site",
		Long:          `Inspect and tag labels, move articles in and out as Markdown, and run maintenance tasks. Storage settings come from the same environment variables as the API server.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "log storage activity to stderr")

	root.AddCommand(
		newSlugifyCmd(),
		newHashPasswordCmd(),
		app.newMigrateCmd(),
		app.newLabelsCmd(),
		app.newArticlesCmd(),
	)
	return root
}

func (app *cli) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if app.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// open loads the storage configuration and wires the services. Callers
// must Close the result.
func (app *cli) open(cmd *cobra.Command, migrate bool) (*bootstrap.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateStorage(); err != nil {
		return nil, err
	}
	return bootstrap.Open(cmd.Context(), cfg, app.logger(cmd), migrate)
}
