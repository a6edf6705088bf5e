package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"apifinder/internal/cache"
	"apifinder/internal/database"
	"apifinder/internal/importer"
	"apifinder/internal/store"
)

func newImportCmd() *cobra.Command {
	var (
		resourcesPath  string
		categoriesPath string
		batchSize      int
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the catalog with the public-apis JSON dataset",
		Long: `Clears the apis and categories tables and loads them from the
resources and categories JSON documents. Entries whose category name has no
matching category row are imported without a category reference and logged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			resources, err := importer.ReadResourcesFile(resourcesPath)
			if err != nil {
				return err
			}
			categories, err := importer.ReadCategoriesFile(categoriesPath)
			if err != nil {
				return err
			}

			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(db); err != nil {
				return err
			}

			im := importer.New(store.NewAPIStore(db), store.NewCategoryStore(db), batchSize)
			report, err := im.Run(ctx, resources, categories)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			slog.Info("import complete",
				"categories", report.Categories,
				"apis", report.APIs,
				"linked", report.Linked,
				"unmatched_categories", len(report.Unmatched),
			)

			// Cached detail pages may describe entries that changed.
			if cfg.CacheEnabled() {
				clearPageCache(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&resourcesPath, "resources", "resources.json", "path to the resources JSON document")
	cmd.Flags().StringVar(&categoriesPath, "categories", "categories.json", "path to the categories JSON document")
	cmd.Flags().IntVar(&batchSize, "batch-size", importer.DefaultBatchSize, "rows per insert statement")
	return cmd
}

func clearPageCache(ctx context.Context, host, port, password string) {
	client, err := cache.ConnectValkey(ctx, host, port, password)
	if err != nil {
		slog.Warn("page cache not cleared", "error", err)
		return
	}
	defer client.Close()
	cache.NewPageCache(client, 0).InvalidateAll(ctx)
}
