package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"apifinder/internal/database"
)

func newMigrateCmd() *cobra.Command {
	var versionOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if !versionOnly {
				if err := database.Migrate(db); err != nil {
					return err
				}
			}
			v, err := database.Version(db)
			if err != nil {
				return err
			}
			slog.Info("schema version", "version", v)
			return nil
		},
	}
	cmd.Flags().BoolVar(&versionOnly, "version", false, "print the current schema version without migrating")
	return cmd
}
