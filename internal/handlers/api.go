package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"apifinder/internal/middleware"
	"apifinder/internal/models"
)

// APISearcher runs the store-side search behind the JSON endpoint.
type APISearcher interface {
	Search(ctx context.Context, term, category string) ([]models.API, error)
}

// CategoryLister lists stored categories.
type CategoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

// JSON serves the read-only /v1 endpoints. Responses use the same
// {count, entries} envelope as the import dataset.
type JSON struct {
	apis       APISearcher
	categories CategoryLister
}

// NewJSON creates the JSON handler group.
func NewJSON(apis APISearcher, categories CategoryLister) *JSON {
	return &JSON{apis: apis, categories: categories}
}

type envelope[T any] struct {
	Count   int `json:"count"`
	Entries []T `json:"entries"`
}

// APIs handles GET /v1/apis?q=&category=. Both parameters are optional;
// the match is a case-insensitive substring on name, description and
// category.
func (j *JSON) APIs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := j.apis.Search(r.Context(), strings.TrimSpace(q.Get("q")), strings.TrimSpace(q.Get("category")))
	if err != nil {
		j.fail(w, r, "search apis", err)
		return
	}
	if items == nil {
		items = []models.API{}
	}
	writeJSON(w, http.StatusOK, envelope[models.API]{Count: len(items), Entries: items})
}

// Categories handles GET /v1/categories.
func (j *JSON) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := j.categories.List(r.Context())
	if err != nil {
		j.fail(w, r, "list categories", err)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	writeJSON(w, http.StatusOK, envelope[models.Category]{Count: len(cats), Entries: cats})
}

func (j *JSON) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if r.Context().Err() != nil {
		return
	}
	slog.Error(op+" failed", "error", err, "request_id", middleware.RequestIDFromCtx(r.Context()))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write json failed", "error", err)
	}
}
