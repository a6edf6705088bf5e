// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"apifinder/internal/models"
)

// APIStore handles all catalog entry queries.
type APIStore struct {
	db *sqlx.DB
}

// NewAPIStore creates a new APIStore with the given database connection.
func NewAPIStore(db *sql.DB) *APIStore {
	return &APIStore{db: wrap(db)}
}

var apiColumns = []string{
	"id", "api_name", "description", "auth", "https", "cors", "link",
	"category_id", "category_name", "created_at",
}

// catalogOrder is the stable order used for listing and paging. The id
// tiebreaker keeps offsets consistent for entries that share a name.
var catalogOrder = []string{"api_name", "id"}

// ListPage returns up to limit entries starting at offset, in catalog order.
func (s *APIStore) ListPage(ctx context.Context, offset, limit int) ([]models.API, error) {
	query, args, err := psql.Select(apiColumns...).
		From("apis").
		OrderBy(catalogOrder...).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list apis: %w", err)
	}

	var items []models.API
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list apis (offset %d): %w", offset, err)
	}
	return items, nil
}

// FindByID retrieves a catalog entry by ID. Returns nil if not found.
func (s *APIStore) FindByID(ctx context.Context, id int64) (*models.API, error) {
	query, args, err := psql.Select(apiColumns...).
		From("apis").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find api: %w", err)
	}

	var a models.API
	err = s.db.GetContext(ctx, &a, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find api by id: %w", err)
	}
	return &a, nil
}

// Search returns entries whose name, description or category contains term
// (case-insensitive), optionally restricted to one category, in catalog
// order. An empty term and category returns the whole catalog.
func (s *APIStore) Search(ctx context.Context, term, category string) ([]models.API, error) {
	b := psql.Select(apiColumns...).From("apis")
	if term != "" {
		pattern := containsPattern(term)
		b = b.Where(sq.Or{
			sq.ILike{"api_name": pattern},
			sq.ILike{"description": pattern},
			sq.ILike{"category_name": pattern},
		})
	}
	if category != "" {
		b = b.Where(sq.Eq{"category_name": category})
	}
	query, args, err := b.OrderBy(catalogOrder...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search apis: %w", err)
	}

	var items []models.API
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("search apis: %w", err)
	}
	return items, nil
}

// InsertBatch inserts entries in a single statement and returns the number
// of rows written.
func (s *APIStore) InsertBatch(ctx context.Context, apis []models.API) (int64, error) {
	if len(apis) == 0 {
		return 0, nil
	}

	ins := psql.Insert("apis").Columns(
		"api_name", "description", "auth", "https", "cors", "link",
		"category_id", "category_name",
	)
	for _, a := range apis {
		ins = ins.Values(a.Name, a.Description, a.Auth, a.HTTPS, a.Cors, a.Link,
			a.CategoryID, a.CategoryName)
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert apis: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert apis: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert apis rows affected: %w", err)
	}
	return n, nil
}

// Count returns the number of catalog entries.
func (s *APIStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM apis`); err != nil {
		return 0, fmt.Errorf("count apis: %w", err)
	}
	return n, nil
}

// CountLinked returns the number of entries with a non-null category reference.
func (s *APIStore) CountLinked(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM apis WHERE category_id IS NOT NULL`); err != nil {
		return 0, fmt.Errorf("count linked apis: %w", err)
	}
	return n, nil
}

// DeleteAll removes every catalog entry.
func (s *APIStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM apis`); err != nil {
		return fmt.Errorf("delete apis: %w", err)
	}
	return nil
}

// LinkedAPI is a catalog entry joined with its referenced category, if any.
type LinkedAPI struct {
	ID           int64          `db:"id"`
	Name         string         `db:"api_name"`
	CategoryName string         `db:"category_name"`
	CategoryID   sql.NullInt64  `db:"ref_id"`
	RefName      sql.NullString `db:"ref_name"`
	RefSlug      sql.NullString `db:"ref_slug"`
}

// Sample returns the first limit entries joined with their categories.
// Used to spot-check foreign keys after an import.
func (s *APIStore) Sample(ctx context.Context, limit int) ([]LinkedAPI, error) {
	query, args, err := psql.Select(
		"a.id", "a.api_name", "a.category_name",
		"c.id AS ref_id", "c.name AS ref_name", "c.slug AS ref_slug",
	).
		From("apis a").
		LeftJoin("categories c ON c.id = a.category_id").
		OrderBy("a.api_name", "a.id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sample apis: %w", err)
	}

	var items []LinkedAPI
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("sample apis: %w", err)
	}
	return items, nil
}
