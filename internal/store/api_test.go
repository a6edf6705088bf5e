package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apifinder/internal/models"
)

var apiRowColumns = []string{
	"id", "api_name", "description", "auth", "https", "cors", "link",
	"category_id", "category_name", "created_at",
}

func TestAPIStoreListPage(t *testing.T) {
	db, mock := mockDB(t)
	s := NewAPIStore(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, api_name, .* FROM apis ORDER BY api_name, id LIMIT 1000 OFFSET 2000`).
		WillReturnRows(sqlmock.NewRows(apiRowColumns).
			AddRow(1, "Cat Facts", "Daily cat facts", "", true, "no", "https://cat.example", 7, "Animals", now).
			AddRow(2, "Dog API", "Dogs", "apiKey", true, "yes", "https://dog.example", nil, "Animals", now))

	items, err := s.ListPage(context.Background(), 2000, 1000)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Cat Facts", items[0].Name)
	require.NotNil(t, items[0].CategoryID)
	assert.Equal(t, int64(7), *items[0].CategoryID)
	assert.Nil(t, items[1].CategoryID)
	assert.Equal(t, "Animals", items[1].CategoryName)
	assert.Equal(t, "apiKey", items[1].Auth)
}

func TestAPIStoreListPageError(t *testing.T) {
	db, mock := mockDB(t)
	s := NewAPIStore(db)

	mock.ExpectQuery(`SELECT .* FROM apis`).WillReturnError(errors.New("connection reset"))

	_, err := s.ListPage(context.Background(), 0, 1000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list apis (offset 0)")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestAPIStoreFindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := mockDB(t)
		s := NewAPIStore(db)

		mock.ExpectQuery(`SELECT .* FROM apis WHERE id = \$1`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(apiRowColumns).
				AddRow(42, "Open-Meteo", "Weather", "", true, "yes", "https://open-meteo.com", 3, "Weather", time.Now()))

		a, err := s.FindByID(context.Background(), 42)
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, "Open-Meteo", a.Name)
	})

	t.Run("not found returns nil", func(t *testing.T) {
		db, mock := mockDB(t)
		s := NewAPIStore(db)

		mock.ExpectQuery(`SELECT .* FROM apis WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(apiRowColumns))

		a, err := s.FindByID(context.Background(), 99)
		require.NoError(t, err)
		assert.Nil(t, a)
	})
}

func TestAPIStoreSearch(t *testing.T) {
	t.Run("term and category", func(t *testing.T) {
		db, mock := mockDB(t)
		s := NewAPIStore(db)

		mock.ExpectQuery(`SELECT .* FROM apis WHERE \(api_name ILIKE \$1 OR description ILIKE \$2 OR category_name ILIKE \$3\) AND category_name = \$4 ORDER BY api_name, id`).
			WithArgs(`%100\%%`, `%100\%%`, `%100\%%`, "Games").
			WillReturnRows(sqlmock.NewRows(apiRowColumns))

		items, err := s.Search(context.Background(), "100%", "Games")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("no filters lists everything", func(t *testing.T) {
		db, mock := mockDB(t)
		s := NewAPIStore(db)

		mock.ExpectQuery(`SELECT .* FROM apis ORDER BY api_name, id`).
			WillReturnRows(sqlmock.NewRows(apiRowColumns).
				AddRow(1, "A", "", "", false, "", "", nil, "X", time.Now()))

		items, err := s.Search(context.Background(), "", "")
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestAPIStoreInsertBatch(t *testing.T) {
	db, mock := mockDB(t)
	s := NewAPIStore(db)
	catID := int64(5)

	batch := []models.API{
		{Name: "Cat Facts", Description: "Cats", HTTPS: true, Cors: "no", Link: "https://c", CategoryID: &catID, CategoryName: "Animals"},
		{Name: "Orphan", Description: "No category", Auth: "apiKey", CategoryName: "Missing"},
	}

	mock.ExpectExec(`INSERT INTO apis \(api_name,description,auth,https,cors,link,category_id,category_name\) VALUES \(\$1,.*\),\(\$9,.*\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := s.InsertBatch(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestAPIStoreInsertBatchEmpty(t *testing.T) {
	db, _ := mockDB(t)
	s := NewAPIStore(db)

	n, err := s.InsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAPIStoreCounts(t *testing.T) {
	db, mock := mockDB(t)
	s := NewAPIStore(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM apis$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1425))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM apis WHERE category_id IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1400))

	total, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1425, total)

	linked, err := s.CountLinked(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1400, linked)
}

func TestAPIStoreSample(t *testing.T) {
	db, mock := mockDB(t)
	s := NewAPIStore(db)

	mock.ExpectQuery(`SELECT a.id, a.api_name, a.category_name, c.id AS ref_id, c.name AS ref_name, c.slug AS ref_slug FROM apis a LEFT JOIN categories c ON c.id = a.category_id ORDER BY a.api_name, a.id LIMIT 3`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "api_name", "category_name", "ref_id", "ref_name", "ref_slug"}).
			AddRow(1, "Cat Facts", "Animals", 7, "Animals", "animals").
			AddRow(2, "Orphan", "Missing", nil, nil, nil))

	items, err := s.Sample(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].CategoryID.Valid)
	assert.Equal(t, "animals", items[0].RefSlug.String)
	assert.False(t, items[1].CategoryID.Valid)
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"video", "%video%"},
		{"50%", `%50\%%`},
		{"snake_case", `%snake\_case%`},
		{`back\slash`, `%back\\slash%`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, containsPattern(tt.in))
		})
	}
}
