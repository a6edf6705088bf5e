// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"apifinder/internal/cache"
	"apifinder/internal/catalog"
	"apifinder/internal/database"
	"apifinder/internal/handlers"
	"apifinder/internal/middleware"
	"apifinder/internal/render"
	"apifinder/internal/resolver"
	"apifinder/internal/router"
	"apifinder/internal/store"
	"apifinder/web"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	// Valkey is optional. Without it pages are rendered on every request.
	var (
		pageCache *cache.PageCache
		valkey    handlers.Pinger
	)
	if cfg.CacheEnabled() {
		client, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return err
		}
		defer client.Close()
		pageCache = cache.NewPageCache(client, cache.DefaultPageTTL)
		valkey = valkeyPinger{client}
	} else {
		slog.Warn("valkey not configured, page cache disabled")
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}

	apiStore := store.NewAPIStore(db)
	categoryStore := store.NewCategoryStore(db)
	loader := catalog.NewLoader(apiStore, categoryStore, cfg.PageSize)
	holder := catalog.NewHolder(loader)

	// Warm the catalog in the background; the home page waits on the same
	// in-flight load if a request arrives first.
	go func() {
		if snap, err := holder.Load(ctx); err == nil {
			slog.Info("catalog ready", "apis", snap.Len(), "categories", len(snap.CategoryNames()))
		}
	}()

	limiter := middleware.NewRateLimiter(cfg.FormRateLimit, time.Minute)
	defer limiter.Stop()

	r := router.New(router.Handlers{
		Catalog: handlers.NewCatalog(holder, resolver.New(loader, apiStore), categoryStore, renderer, pageCache),
		Pages:   handlers.NewPages(renderer, pageCache, holder, db, valkey),
		Forms:   handlers.NewForms(renderer),
		JSON:    handlers.NewJSON(apiStore, categoryStore),
	}, router.Options{
		SecureCookies: !cfg.IsDev(),
		FormLimiter:   limiter,
		Static:        web.Static(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}

// valkeyPinger adapts a go-redis client to handlers.Pinger.
type valkeyPinger struct{ client *redis.Client }

func (p valkeyPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
