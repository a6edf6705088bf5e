// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package importer copies the public-apis JSON dataset into the catalog
// tables. It is a one-off bulk load: both tables are cleared first, and a
// failure part way through leaves whatever was written so far.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"apifinder/internal/models"
	"apifinder/internal/slug"
	"apifinder/internal/store"
)

// DefaultBatchSize is the number of rows written per insert statement.
const DefaultBatchSize = 100

// CategoryWriter is the category side of the store used by an import.
type CategoryWriter interface {
	DeleteAll(ctx context.Context) error
	InsertBatch(ctx context.Context, cats []models.Category) ([]models.Category, error)
	Count(ctx context.Context) (int, error)
}

// APIWriter is the catalog side of the store used by an import.
type APIWriter interface {
	DeleteAll(ctx context.Context) error
	InsertBatch(ctx context.Context, apis []models.API) (int64, error)
	Count(ctx context.Context) (int, error)
	CountLinked(ctx context.Context) (int, error)
	Sample(ctx context.Context, limit int) ([]store.LinkedAPI, error)
}

// BatchError reports which insert batch failed. Batch is 1-based.
type BatchError struct {
	Table string
	Batch int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("insert %s batch %d: %v", e.Table, e.Batch, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Report summarizes a finished import.
type Report struct {
	Categories       int            // categories inserted
	APIs             int            // entries inserted
	Linked           int            // entries inserted with a category reference
	Unmatched        map[string]int // category name -> entries left without a reference
	StoredCategories int            // categories counted in the store afterwards
	StoredAPIs       int            // entries counted in the store afterwards
	StoredLinked     int            // linked entries counted in the store afterwards
}

// Importer writes a dataset into the store.
type Importer struct {
	apis       APIWriter
	categories CategoryWriter
	batchSize  int
}

// New returns an Importer writing batchSize rows per statement. A
// non-positive batchSize selects DefaultBatchSize.
func New(apis APIWriter, categories CategoryWriter, batchSize int) *Importer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Importer{apis: apis, categories: categories, batchSize: batchSize}
}

// Run clears both tables, inserts the categories, then inserts the entries
// in batches with category references resolved by exact name. Running it
// twice without clearing in between is safe only because it clears first.
func (im *Importer) Run(ctx context.Context, resources *ResourceDocument, categories *CategoryDocument) (*Report, error) {
	slog.Info("import starting",
		"categories", len(categories.Entries),
		"apis", len(resources.Entries),
		"batch_size", im.batchSize,
	)

	if err := im.apis.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear apis: %w", err)
	}
	if err := im.categories.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear categories: %w", err)
	}

	ids, err := im.insertCategories(ctx, categories.Entries)
	if err != nil {
		return nil, err
	}

	report := &Report{Categories: len(ids), Unmatched: make(map[string]int)}
	rows := make([]models.API, 0, len(resources.Entries))
	for _, e := range resources.Entries {
		a := models.API{
			Name:         e.API,
			Description:  e.Description,
			Auth:         e.Auth,
			HTTPS:        e.HTTPS,
			Cors:         e.Cors,
			Link:         e.Link,
			CategoryName: e.Category,
		}
		if id, ok := ids[e.Category]; ok {
			a.CategoryID = &id
			report.Linked++
		} else {
			report.Unmatched[e.Category]++
		}
		rows = append(rows, a)
	}
	logUnmatched(report.Unmatched)

	for start, batch := 0, 1; start < len(rows); start, batch = start+im.batchSize, batch+1 {
		end := min(start+im.batchSize, len(rows))
		n, err := im.apis.InsertBatch(ctx, rows[start:end])
		if err != nil {
			slog.Error("api batch failed", "batch", batch, "error", err)
			return nil, &BatchError{Table: "apis", Batch: batch, Err: err}
		}
		report.APIs += int(n)
		slog.Info("apis inserted", "done", report.APIs, "total", len(rows))
	}

	if err := im.verify(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// insertCategories writes categories in batches and returns name -> id.
func (im *Importer) insertCategories(ctx context.Context, entries []CategoryEntry) (map[string]int64, error) {
	cats := make([]models.Category, 0, len(entries))
	for _, e := range entries {
		s := e.Slug
		if s == "" {
			s = slug.Generate(e.Name)
		}
		cats = append(cats, models.Category{Name: e.Name, Slug: s})
	}

	ids := make(map[string]int64, len(cats))
	for start, batch := 0, 1; start < len(cats); start, batch = start+im.batchSize, batch+1 {
		end := min(start+im.batchSize, len(cats))
		created, err := im.categories.InsertBatch(ctx, cats[start:end])
		if err != nil {
			slog.Error("category batch failed", "batch", batch, "error", err)
			return nil, &BatchError{Table: "categories", Batch: batch, Err: err}
		}
		for _, c := range created {
			ids[c.Name] = c.ID
		}
	}
	slog.Info("categories inserted", "count", len(ids))
	return ids, nil
}

// verify counts what the store holds after the import and logs a sample of
// joined rows.
func (im *Importer) verify(ctx context.Context, report *Report) error {
	var err error
	if report.StoredCategories, err = im.categories.Count(ctx); err != nil {
		return fmt.Errorf("verify categories: %w", err)
	}
	if report.StoredAPIs, err = im.apis.Count(ctx); err != nil {
		return fmt.Errorf("verify apis: %w", err)
	}
	if report.StoredLinked, err = im.apis.CountLinked(ctx); err != nil {
		return fmt.Errorf("verify linked apis: %w", err)
	}

	samples, err := im.apis.Sample(ctx, 3)
	if err != nil {
		return fmt.Errorf("verify sample: %w", err)
	}
	for _, s := range samples {
		slog.Info("sample api",
			"name", s.Name,
			"category", s.CategoryName,
			"category_id", s.CategoryID.Int64,
			"linked", s.CategoryID.Valid,
		)
	}

	slog.Info("import verified",
		"categories", report.StoredCategories,
		"apis", report.StoredAPIs,
		"linked", report.StoredLinked,
	)
	return nil
}

func logUnmatched(unmatched map[string]int) {
	names := make([]string, 0, len(unmatched))
	for name := range unmatched {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		slog.Warn("category not found in categories table", "category", name, "apis", unmatched[name])
	}
}
