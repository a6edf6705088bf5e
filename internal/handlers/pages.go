// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"apifinder/internal/cache"
	"apifinder/internal/catalog"
	"apifinder/internal/markdown"
	"apifinder/internal/render"
)

// CatalogState reports the catalog lifecycle for the status page.
type CatalogState interface {
	State() catalog.State
	Snapshot() (*catalog.Snapshot, error)
}

// Pinger checks a backing service. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// PingContext calls f.
func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Tier is one column of the pricing table.
type Tier struct {
	Name     string
	Price    string
	Searches string
	Features []string
	Action   string
	Href     string
	Popular  bool
}

// Tiers is the pricing table. Payments are not processed; every action
// leads to a stub form.
var Tiers = []Tier{
	{
		Name:     "Anonymous",
		Price:    "Free",
		Searches: "2 searches/day",
		Features: []string{"Browse all free APIs"},
		Action:   "Start Searching",
		Href:     "/",
	},
	{
		Name:     "Registered",
		Price:    "Free",
		Searches: "10 searches/day",
		Features: []string{"Save favorite APIs", "Search history"},
		Action:   "Sign Up",
		Href:     "/register",
	},
	{
		Name:     "Pro",
		Price:    "$9/month",
		Searches: "Unlimited searches",
		Features: []string{"Everything in Registered", "Unlimited daily searches"},
		Action:   "Subscribe Now",
		Href:     "/subscribe",
		Popular:  true,
	},
}

// Service is one row on the status page.
type Service struct {
	Name   string
	Status string // operational, degraded or outage
	Detail string
}

// Pages serves the static marketing, legal and status pages.
type Pages struct {
	renderer  *render.Renderer
	pageCache *cache.PageCache
	state     CatalogState
	db        Pinger
	valkey    Pinger
}

// NewPages creates the static page handler group. pageCache and valkey
// may be nil when Valkey is not configured.
func NewPages(renderer *render.Renderer, pageCache *cache.PageCache, state CatalogState, db, valkey Pinger) *Pages {
	return &Pages{renderer: renderer, pageCache: pageCache, state: state, db: db, valkey: valkey}
}

// Document returns a handler for the Markdown page name (about, terms,
// privacy, cookies).
func (p *Pages) Document(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := cache.StaticKey(name)
		if cached, ok := p.pageCache.Get(ctx, key); ok {
			writeHTML(w, http.StatusOK, cached)
			return
		}

		doc, err := markdown.Load(name)
		if errors.Is(err, markdown.ErrNoPage) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("load markdown page failed", "page", name, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		out, err := p.renderer.Bytes("document", &render.PageData{
			Title:   doc.Title,
			Section: name,
			Data:    map[string]any{"Body": doc.Body},
		})
		if err != nil {
			slog.Error("render document failed", "page", name, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		p.pageCache.Set(ctx, key, out)
		writeHTML(w, http.StatusOK, out)
	}
}

// Pricing renders the plan table.
func (p *Pages) Pricing(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, http.StatusOK, "pricing", &render.PageData{
		Title:   "Pricing",
		Section: "pricing",
		Data:    map[string]any{"Tiers": Tiers},
	})
}

// Status reports the catalog state and pings the backing services. It is
// never cached.
func (p *Pages) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	services := []Service{catalogService(p.state)}
	services = append(services, pingService(ctx, "Database", p.db))
	if p.valkey != nil {
		services = append(services, pingService(ctx, "Page cache", p.valkey))
	}

	overall := "operational"
	for _, s := range services {
		if s.Status != "operational" {
			overall = "degraded"
			break
		}
	}

	var loadedAt time.Time
	if snap, err := p.state.Snapshot(); err == nil {
		loadedAt = snap.LoadedAt()
	}

	w.Header().Set("Cache-Control", "no-store")
	p.renderer.Page(w, r, http.StatusOK, "status", &render.PageData{
		Title:   "API Status",
		Section: "status",
		Data: map[string]any{
			"Services": services,
			"Overall":  overall,
			"LoadedAt": loadedAt,
		},
	})
}

func catalogService(state CatalogState) Service {
	s := Service{Name: "API Search Service"}
	switch state.State() {
	case catalog.StateReady:
		snap, _ := state.Snapshot()
		s.Status = "operational"
		s.Detail = "catalog ready"
		if snap != nil {
			s.Detail = formatCount(snap.Len(), "API") + " loaded"
		}
	case catalog.StateFailed:
		s.Status = "outage"
		s.Detail = "catalog load failed"
	default:
		s.Status = "degraded"
		s.Detail = "catalog " + state.State().String()
	}
	return s
}

func pingService(ctx context.Context, name string, p Pinger) Service {
	if p == nil {
		return Service{Name: name, Status: "outage", Detail: "not configured"}
	}
	start := time.Now()
	if err := p.PingContext(ctx); err != nil {
		slog.Warn("status ping failed", "service", name, "error", err)
		return Service{Name: name, Status: "outage", Detail: "unreachable"}
	}
	return Service{Name: name, Status: "operational", Detail: time.Since(start).Round(time.Millisecond).String()}
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
