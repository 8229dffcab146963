// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/folio/internal/platform/config"
	"github.com/taibuivan/folio/internal/platform/migration"
	"github.com/taibuivan/folio/internal/platform/sqlite"
)

func (app *cli) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Long:  `Applies pending PostgreSQL migrations from MIGRATION_PATH, or the embedded schema for SQLite.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateStorage(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.DatabaseDriver == config.DriverSQLite {
				db, err := sqlite.Open(cfg.SQLitePath, app.logger(cmd))
				if err != nil {
					return err
				}
				defer db.Close()
				fmt.Fprintln(out, success("sqlite schema applied to "+cfg.SQLitePath))
				return nil
			}

			result, err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, app.logger(cmd))
			if err != nil {
				return err
			}
			if !result.Changed {
				fmt.Fprintln(out, faint(fmt.Sprintf("already at version %d", result.ToVersion)))
				return nil
			}
			fmt.Fprintln(out, success(fmt.Sprintf("migrated %d -> %d", result.FromVersion, result.ToVersion)))
			return nil
		},
	}
}
