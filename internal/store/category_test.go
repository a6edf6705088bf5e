package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apifinder/internal/models"
)

func TestCategoryStoreList(t *testing.T) {
	db, mock := mockDB(t)
	s := NewCategoryStore(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, name, slug, created_at FROM categories ORDER BY name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at"}).
			AddRow(1, "Animals", "animals", now).
			AddRow(2, "Anime", "anime", now))

	items, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Anime", items[1].Name)
	assert.Equal(t, int64(2), items[1].ID)
}

func TestCategoryStoreFindBySlugMissing(t *testing.T) {
	db, mock := mockDB(t)
	s := NewCategoryStore(db)

	mock.ExpectQuery(`SELECT .* FROM categories WHERE slug = \$1`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at"}))

	c, err := s.FindBySlug(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCategoryStoreInsertBatch(t *testing.T) {
	db, mock := mockDB(t)
	s := NewCategoryStore(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO categories \(name,slug\) VALUES \(\$1,\$2\),\(\$3,\$4\) RETURNING id, name, slug, created_at`).
		WithArgs("Animals", "animals", "Anime", "anime").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at"}).
			AddRow(10, "Animals", "animals", now).
			AddRow(11, "Anime", "anime", now))

	created, err := s.InsertBatch(context.Background(), []models.Category{
		{Name: "Animals", Slug: "animals"},
		{Name: "Anime", Slug: "anime"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, int64(10), created[0].ID)
}

func TestCategoryStoreDeleteAll(t *testing.T) {
	db, mock := mockDB(t)
	s := NewCategoryStore(db)

	mock.ExpectExec(`DELETE FROM categories`).WillReturnResult(sqlmock.NewResult(0, 51))
	require.NoError(t, s.DeleteAll(context.Background()))
}
