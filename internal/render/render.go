// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site.
// It supports full-page and HTMX partial rendering, detecting the request
// type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"apifinder/internal/middleware"
	"apifinder/internal/models"
	"apifinder/internal/search"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageData holds everything passed to a page template.
type PageData struct {
	Title     string         // <title> and heading
	Section   string         // active nav entry
	CSRFToken string         // filled from the request context
	Flashes   []Flash        // one-time notices
	Data      map[string]any // page-specific values
}

// Flash is a one-time notice shown above the page content.
type Flash struct {
	Type    string // "success" or "error"
	Message string
}

// Renderer holds one parsed template set per page, each paired with the
// base layout.
type Renderer struct {
	templates map[string]*template.Template
}

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"highlight": search.Highlight,
		"apiPath": func(a models.API) string {
			return "/api/" + url.PathEscape(a.Slug())
		},
		"authClass": func(a models.API) string {
			switch a.AuthBadge() {
			case "No Auth":
				return "badge-green"
			case "API Key":
				return "badge-yellow"
			case "OAuth":
				return "badge-blue"
			}
			return "badge-gray"
		},
		"corsLabel": func(a models.API) string {
			switch a.CorsStatus() {
			case models.CorsEnabled:
				return "CORS ✓"
			case models.CorsDisabled:
				return "No CORS"
			case models.CorsUnknown:
				return "CORS Unknown"
			}
			return "CORS " + a.Cors
		},
		"corsClass": func(a models.API) string {
			switch a.CorsStatus() {
			case models.CorsEnabled:
				return "badge-green"
			case models.CorsDisabled:
				return "badge-red"
			}
			return "badge-gray"
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return "never"
			}
			return t.UTC().Format("Jan 2, 2006 15:04 MST")
		},
		"year": func() int { return time.Now().Year() },
	}
}

// New parses the embedded templates. Every file except base.html is a page.
func New() (*Renderer, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	rn := &Renderer{templates: make(map[string]*template.Template)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}
		tmpl, err := template.New("base.html").Funcs(Funcs()).ParseFS(
			templatesFS, "templates/base.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		rn.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return rn, nil
}

// Page renders a page with the given status. HTMX requests get only the
// "main" block (flashes plus content) for swapping into #main; full loads
// get the whole layout.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	block := "base.html"
	if IsHTMX(r) {
		block = "main"
	}
	rn.Block(w, r, status, name, block, data)
}

// Block renders a single named template from a page's set, e.g. the search
// results fragment of the home page.
func (rn *Renderer) Block(w http.ResponseWriter, r *http.Request, status int, name, block string, data *PageData) {
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())

	out, err := rn.execute(name, block, data)
	if err != nil {
		slog.Error("render failed", "template", name, "block", block, "error", err,
			"request_id", middleware.RequestIDFromCtx(r.Context()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(out)
}

// Bytes renders a full page to memory, for responses that are cached.
// The result carries no CSRF token.
func (rn *Renderer) Bytes(name string, data *PageData) ([]byte, error) {
	return rn.execute(name, "base.html", data)
}

// execute buffers the output so a failing template never leaves a
// half-written response.
func (rn *Renderer) execute(name, block string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		return nil, fmt.Errorf("execute %s/%s: %w", name, block, err)
	}
	return buf.Bytes(), nil
}

// IsHTMX reports whether the request was made by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
