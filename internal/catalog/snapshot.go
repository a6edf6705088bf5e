package catalog

import (
	"time"

	"apifinder/internal/models"
)

// Snapshot is one frozen, successfully loaded copy of the catalog. It is
// never modified after construction and is safe to share between requests.
// Slices returned by its accessors must not be modified by callers.
type Snapshot struct {
	apis          []models.API
	categoryNames []string
	categories    []models.Category
	authOptions   []string
	corsOptions   []string
	loadedAt      time.Time
}

func newSnapshot(apis []models.API, names []string, cats []models.Category, at time.Time) *Snapshot {
	return &Snapshot{
		apis:          apis,
		categoryNames: names,
		categories:    cats,
		authOptions:   distinctSorted(apis, func(a *models.API) string { return a.Auth }),
		corsOptions:   distinctSorted(apis, func(a *models.API) string { return a.Cors }),
		loadedAt:      at,
	}
}

// NewSnapshot builds a snapshot from already loaded data. Category names are
// derived from apis.
func NewSnapshot(apis []models.API, cats []models.Category) *Snapshot {
	return newSnapshot(apis, CategoryNames(apis), cats, time.Now())
}

// APIs returns the catalog entries in catalog (name) order.
func (s *Snapshot) APIs() []models.API { return s.apis }

// CategoryNames returns the distinct category names used by entries, sorted.
func (s *Snapshot) CategoryNames() []string { return s.categoryNames }

// Categories returns the category rows.
func (s *Snapshot) Categories() []models.Category { return s.categories }

// AuthOptions returns the distinct non-empty auth labels, sorted.
func (s *Snapshot) AuthOptions() []string { return s.authOptions }

// CorsOptions returns the distinct non-empty CORS labels, sorted.
func (s *Snapshot) CorsOptions() []string { return s.corsOptions }

// LoadedAt returns when the load completed.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Len returns the number of catalog entries.
func (s *Snapshot) Len() int { return len(s.apis) }
