// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"apifinder/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sqlx.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: wrap(db)}
}

var categoryColumns = []string{"id", "name", "slug", "created_at"}

// List returns all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	query, args, err := psql.Select(categoryColumns...).
		From("categories").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories: %w", err)
	}

	var items []models.Category
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query, args, err := psql.Select(categoryColumns...).
		From("categories").
		Where("slug = ?", slug).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find category: %w", err)
	}

	var c models.Category
	err = s.db.GetContext(ctx, &c, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return &c, nil
}

// InsertBatch inserts categories in a single statement and returns the
// stored rows with their assigned IDs.
func (s *CategoryStore) InsertBatch(ctx context.Context, cats []models.Category) ([]models.Category, error) {
	if len(cats) == 0 {
		return nil, nil
	}

	ins := psql.Insert("categories").Columns("name", "slug")
	for _, c := range cats {
		ins = ins.Values(c.Name, c.Slug)
	}
	query, args, err := ins.Suffix("RETURNING id, name, slug, created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert categories: %w", err)
	}

	var created []models.Category
	if err := s.db.SelectContext(ctx, &created, query, args...); err != nil {
		return nil, fmt.Errorf("insert categories: %w", err)
	}
	return created, nil
}

// Count returns the number of categories.
func (s *CategoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM categories`); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// DeleteAll removes every category. APIs referencing them keep their
// denormalized name; the foreign key is set to NULL.
func (s *CategoryStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}
	return nil
}
