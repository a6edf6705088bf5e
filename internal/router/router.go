// Package router sets up the HTTP routes and middleware chains for the
// API Finder site.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"apifinder/internal/handlers"
	"apifinder/internal/middleware"
)

// Handlers are the handler groups the router mounts.
type Handlers struct {
	Catalog *handlers.Catalog
	Pages   *handlers.Pages
	Forms   *handlers.Forms
	JSON    *handlers.JSON
}

// Options tune the middleware chain.
type Options struct {
	SecureCookies bool                    // mark the CSRF cookie Secure (behind TLS)
	FormLimiter   *middleware.RateLimiter // limits form posts; nil disables
	Static        fs.FS                   // served under /static/
}

// New returns the configured chi router.
func New(h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(chimw.CleanPath)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health", healthHandler)

	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", staticHandler(opts.Static)))
	}

	// JSON API. Read-only, no CSRF.
	r.Route("/v1", func(r chi.Router) {
		r.Get("/apis", h.JSON.APIs)
		r.Get("/categories", h.JSON.Categories)
	})

	// HTML pages. CSRF on everything so GET pages carry a token for their
	// forms.
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		r.Get("/", h.Catalog.Home)
		r.Get("/search", h.Catalog.Search)
		r.Post("/retry", h.Catalog.Retry)
		r.Get("/api/{ident}", h.Catalog.Detail)
		r.Get("/category/{slug}", h.Catalog.Category)

		for _, name := range []string{"about", "terms", "privacy", "cookies"} {
			r.Get("/"+name, h.Pages.Document(name))
		}
		r.Get("/pricing", h.Pages.Pricing)
		r.Get("/status", h.Pages.Status)

		r.Get("/contact", h.Forms.ContactPage)
		r.Get("/subscribe", h.Forms.SubscribePage)
		r.Get("/register", h.Forms.RegisterPage)

		r.Group(func(r chi.Router) {
			if opts.FormLimiter != nil {
				r.Use(opts.FormLimiter.Middleware)
			}
			r.Post("/contact", h.Forms.ContactSubmit)
			r.Post("/subscribe", h.Forms.SubscribeSubmit)
			r.Post("/register", h.Forms.RegisterSubmit)
		})
	})

	return r
}

// staticHandler serves embedded assets with a day of browser caching.
func staticHandler(fsys fs.FS) http.Handler {
	files := http.FileServerFS(fsys)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
