// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"apifinder/internal/cache"
	"apifinder/internal/catalog"
	"apifinder/internal/middleware"
	"apifinder/internal/models"
	"apifinder/internal/render"
	"apifinder/internal/resolver"
	"apifinder/internal/search"
)

// SnapshotSource is the catalog lifecycle the pages read from.
// *catalog.Holder implements it.
type SnapshotSource interface {
	Load(ctx context.Context) (*catalog.Snapshot, error)
	Retry(ctx context.Context) (*catalog.Snapshot, error)
}

// Resolver maps a detail identifier to an entry, nil when unknown.
type Resolver interface {
	Resolve(ctx context.Context, ident string) (*models.API, error)
}

// CategoryFinder looks up a category by slug, nil when unknown.
// *store.CategoryStore implements it.
type CategoryFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// Option is one checkbox in a facet list.
type Option struct {
	Value string
	Label string
}

// Catalog serves the search home page, its HTMX results fragment, the
// manual retry and the detail pages.
type Catalog struct {
	snapshots  SnapshotSource
	resolver   Resolver
	categories CategoryFinder
	renderer   *render.Renderer
	pageCache  *cache.PageCache
}

// NewCatalog creates the catalog handler group. pageCache may be nil.
func NewCatalog(snapshots SnapshotSource, res Resolver, categories CategoryFinder, renderer *render.Renderer, pageCache *cache.PageCache) *Catalog {
	return &Catalog{
		snapshots:  snapshots,
		resolver:   res,
		categories: categories,
		renderer:   renderer,
		pageCache:  pageCache,
	}
}

// Home renders the search page. Query parameters pre-fill the form and the
// results, so a pushed /search URL reloads to the same view.
func (c *Catalog) Home(w http.ResponseWriter, r *http.Request) {
	c.renderSearch(w, r, false)
}

// Search renders filter results: only the results fragment for htmx, the
// whole page otherwise.
func (c *Catalog) Search(w http.ResponseWriter, r *http.Request) {
	c.renderSearch(w, r, render.IsHTMX(r))
}

func (c *Catalog) renderSearch(w http.ResponseWriter, r *http.Request, fragment bool) {
	ctx := r.Context()
	snap, err := c.snapshots.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("catalog unavailable", "error", err, "request_id", middleware.RequestIDFromCtx(ctx))
		c.renderer.Page(w, r, http.StatusServiceUnavailable, "home", &render.PageData{
			Title: "Error",
			Data:  map[string]any{"LoadError": true},
		})
		return
	}

	sel := search.ParseSelection(r.URL.Query())
	data := &render.PageData{Data: searchData(snap, sel, search.Filter(snap.APIs(), sel))}

	if fragment {
		// History gets the home URL for this selection, not /search.
		w.Header().Set("HX-Push-Url", homeURL(sel))
		c.renderer.Block(w, r, http.StatusOK, "home", "results", data)
		return
	}
	if sel.Query != "" {
		data.Title = sel.Query
	}
	c.renderer.Page(w, r, http.StatusOK, "home", data)
}

// Retry re-runs a failed catalog load, then sends the browser home, which
// shows either the catalog or the error again.
func (c *Catalog) Retry(w http.ResponseWriter, r *http.Request) {
	if _, err := c.snapshots.Retry(r.Context()); err != nil {
		slog.Warn("catalog retry failed", "error", err)
	}
	if render.IsHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Category sends /category/{slug} to the home page with that category
// pre-selected.
func (c *Catalog) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cat, err := c.categories.FindBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("find category failed", "error", err, "request_id", middleware.RequestIDFromCtx(ctx))
		c.renderer.Page(w, r, http.StatusInternalServerError, "error", &render.PageData{
			Title: "Error",
			Data:  map[string]any{"Message": "Failed to load category."},
		})
		return
	}
	if cat == nil {
		c.renderer.Page(w, r, http.StatusNotFound, "error", &render.PageData{
			Title: "Category not found",
			Data:  map[string]any{"Message": "Category not found."},
		})
		return
	}
	http.Redirect(w, r, homeURL(search.Selection{Categories: []string{cat.Name}}), http.StatusFound)
}

// homeURL is the home page URL showing sel.
func homeURL(sel search.Selection) string {
	if v := sel.Values(); len(v) > 0 {
		return "/?" + v.Encode()
	}
	return "/"
}

// Detail renders one entry by numeric ID or slug. Unknown identifiers get
// a 404 page scoped to the detail view. Full-page renders are cached.
func (c *Catalog) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := chi.URLParam(r, "ident")
	key := resolver.Key(ident)
	htmx := render.IsHTMX(r)

	if !htmx && key != "" {
		if cached, ok := c.pageCache.Get(ctx, cache.DetailKey(key)); ok {
			writeHTML(w, http.StatusOK, cached)
			return
		}
	}

	api, err := c.resolver.Resolve(ctx, ident)
	if err != nil {
		// A navigation that superseded this one cancelled the request.
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Error("resolve api failed", "error", err, "ident", ident, "request_id", middleware.RequestIDFromCtx(ctx))
		c.renderer.Page(w, r, http.StatusInternalServerError, "error", &render.PageData{
			Title: "Error",
			Data:  map[string]any{"Message": "Failed to load API details."},
		})
		return
	}
	if api == nil {
		c.renderer.Page(w, r, http.StatusNotFound, "notfound", &render.PageData{
			Title: "API not found",
			Data:  map[string]any{"Ident": ident},
		})
		return
	}

	data := &render.PageData{Title: api.Name, Data: map[string]any{"API": api}}
	if htmx {
		c.renderer.Page(w, r, http.StatusOK, "detail", data)
		return
	}
	out, err := c.renderer.Bytes("detail", data)
	if err != nil {
		slog.Error("render detail failed", "error", err, "ident", ident)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if key != "" {
		c.pageCache.Set(ctx, cache.DetailKey(key), out)
	}
	writeHTML(w, http.StatusOK, out)
}

// searchData assembles the template values for the home page.
func searchData(snap *catalog.Snapshot, sel search.Selection, res search.Result) map[string]any {
	return map[string]any{
		"APICount":      snap.Len(),
		"CategoryCount": len(snap.CategoryNames()),
		"Categories":    snap.CategoryNames(),
		"AuthOptions":   authOptions(snap.AuthOptions()),
		"CorsOptions":   corsOptions(snap.CorsOptions()),
		"Selection":     sel,
		"Result":        res,
	}
}

// authOptions puts the synthetic no-auth choice ahead of the stored labels.
func authOptions(labels []string) []Option {
	opts := []Option{{Value: search.NoAuth, Label: "No Auth"}}
	for _, l := range labels {
		opts = append(opts, Option{Value: l, Label: l})
	}
	return opts
}

// corsOptions offers enabled/disabled in place of the raw yes/no values and
// lists any other stored label verbatim.
func corsOptions(labels []string) []Option {
	opts := []Option{
		{Value: search.CorsEnabled, Label: "CORS enabled"},
		{Value: search.CorsDisabled, Label: "No CORS"},
	}
	for _, l := range labels {
		if l == models.CorsYes || l == models.CorsNo {
			continue
		}
		opts = append(opts, Option{Value: l, Label: "CORS " + l})
	}
	return opts
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
