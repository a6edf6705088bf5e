// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog loads the API catalog from the store into an immutable
// in-memory Snapshot and owns that snapshot's lifecycle.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"apifinder/internal/models"
)

// DefaultPageSize matches the row cap the hosted store applies to a single
// select. Pages shorter than this end the scan.
const DefaultPageSize = 1000

// APISource pages through catalog entries in a stable order.
type APISource interface {
	ListPage(ctx context.Context, offset, limit int) ([]models.API, error)
}

// CategorySource lists all categories.
type CategorySource interface {
	List(ctx context.Context) ([]models.Category, error)
}

// Loader reads the full catalog from the store.
type Loader struct {
	apis       APISource
	categories CategorySource
	pageSize   int
}

// NewLoader returns a Loader reading pages of pageSize rows. A non-positive
// pageSize selects DefaultPageSize.
func NewLoader(apis APISource, categories CategorySource, pageSize int) *Loader {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Loader{apis: apis, categories: categories, pageSize: pageSize}
}

// LoadAPIs returns every catalog entry. It requests pages at increasing
// offsets until a page comes back short or empty, so catalogs larger than
// one page are never silently truncated. Any error discards what was read.
func (l *Loader) LoadAPIs(ctx context.Context) ([]models.API, error) {
	var all []models.API
	for offset := 0; ; offset += l.pageSize {
		page, err := l.apis.ListPage(ctx, offset, l.pageSize)
		if err != nil {
			return nil, fmt.Errorf("load catalog page: %w", err)
		}
		all = append(all, page...)
		if len(page) < l.pageSize {
			break
		}
	}
	return all, nil
}

// LoadCatalog returns every catalog entry plus the distinct category names
// they reference, sorted.
func (l *Loader) LoadCatalog(ctx context.Context) ([]models.API, []string, error) {
	apis, err := l.LoadAPIs(ctx)
	if err != nil {
		return nil, nil, err
	}
	return apis, CategoryNames(apis), nil
}

// LoadCategories returns all category rows.
func (l *Loader) LoadCategories(ctx context.Context) ([]models.Category, error) {
	cats, err := l.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return cats, nil
}

// Load reads the catalog and the categories concurrently and freezes them
// into a Snapshot. Either failure fails the whole load.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	var (
		apis  []models.API
		names []string
		cats  []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		apis, names, err = l.LoadCatalog(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = l.LoadCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := newSnapshot(apis, names, cats, time.Now())
	slog.Info("catalog loaded",
		"apis", len(apis),
		"categories", len(cats),
		"duration", time.Since(start).String(),
	)
	return snap, nil
}

// CategoryNames returns the distinct CategoryName values of apis, sorted.
func CategoryNames(apis []models.API) []string {
	return distinctSorted(apis, func(a *models.API) string { return a.CategoryName })
}

// distinctSorted collects the distinct non-empty values of field, sorted.
func distinctSorted(apis []models.API, field func(*models.API) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for i := range apis {
		v := field(&apis[i])
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
