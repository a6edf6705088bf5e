// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"apifinder/internal/config"
	"apifinder/internal/database"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "apifinder",
		Short:         "Search directory of public APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newServeCmd(), newImportCmd(), newMigrateCmd())
	return root
}

// openDB loads configuration and connects to PostgreSQL.
func openDB() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	slog.Info("configuration loaded", "env", cfg.Env, "db_host", cfg.DBHost, "db_name", cfg.DBName)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
