// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search filters an in-memory catalog by free text and by the
// category, auth and CORS facets.
package search

import (
	"net/url"
	"slices"
	"strings"

	"apifinder/internal/models"
)

// MaxResults caps how many matches a Result carries. Total still counts
// every match.
const MaxResults = 40

// Synthetic facet values. They never appear in stored data.
const (
	NoAuth       = "no-auth"  // matches entries with an empty auth label
	CorsEnabled  = "enabled"  // matches the stored CORS value "yes"
	CorsDisabled = "disabled" // matches the stored CORS value "no"
)

// Selection is one request's query text plus facet choices. Each facet is a
// set: an entry matches a facet when the set is empty or contains the
// entry's value.
type Selection struct {
	Query      string
	Categories []string
	Auth       []string
	Cors       []string
}

// ParseSelection reads a Selection from URL query parameters q, category,
// auth and cors. The query is kept verbatim, so whitespace is searched for
// like any other text; only an absent or empty q is no query. Facet
// parameters may repeat; empty values are ignored.
func ParseSelection(v url.Values) Selection {
	return Selection{
		Query:      v.Get("q"),
		Categories: nonEmpty(v["category"]),
		Auth:       nonEmpty(v["auth"]),
		Cors:       nonEmpty(v["cors"]),
	}
}

// IsEmpty reports whether the selection has no query and no facet choices.
func (s Selection) IsEmpty() bool {
	return s.Query == "" && s.ActiveFilterCount() == 0
}

// ActiveFilterCount returns how many facets have at least one value chosen.
func (s Selection) ActiveFilterCount() int {
	n := 0
	for _, f := range [][]string{s.Categories, s.Auth, s.Cors} {
		if len(f) > 0 {
			n++
		}
	}
	return n
}

// Values encodes the selection back into URL query parameters.
func (s Selection) Values() url.Values {
	v := url.Values{}
	if s.Query != "" {
		v.Set("q", s.Query)
	}
	for _, c := range s.Categories {
		v.Add("category", c)
	}
	for _, a := range s.Auth {
		v.Add("auth", a)
	}
	for _, c := range s.Cors {
		v.Add("cors", c)
	}
	return v
}

// Has reports whether value is chosen in the named facet. Used by templates
// to pre-check options.
func (s Selection) Has(facet, value string) bool {
	switch facet {
	case "category":
		return slices.Contains(s.Categories, value)
	case "auth":
		return slices.Contains(s.Auth, value)
	case "cors":
		return slices.Contains(s.Cors, value)
	}
	return false
}

// Result is the outcome of Filter.
//
// An inactive result (empty selection) is distinct from an active result
// with no matches: the first shows no results panel, the second shows
// "0 found".
type Result struct {
	Active bool
	Items  []models.API
	Total  int
}

// Truncated reports whether more entries matched than Items holds.
func (r Result) Truncated() bool {
	return r.Total > len(r.Items)
}

// Filter returns the entries of apis matching every part of sel, in their
// original order, capped at MaxResults. It is a pure function of its inputs.
func Filter(apis []models.API, sel Selection) Result {
	if sel.IsEmpty() {
		return Result{}
	}

	m := newMatcher(sel)
	res := Result{Active: true, Items: []models.API{}}
	for i := range apis {
		if !m.match(&apis[i]) {
			continue
		}
		res.Total++
		if len(res.Items) < MaxResults {
			res.Items = append(res.Items, apis[i])
		}
	}
	return res
}

// matcher holds a selection prepared for repeated matching.
type matcher struct {
	query      string
	categories map[string]struct{}
	auth       map[string]struct{}
	cors       map[string]struct{}
	noAuth     bool
	corsYes    bool
	corsNo     bool
}

func newMatcher(sel Selection) *matcher {
	m := &matcher{
		query:      strings.ToLower(sel.Query),
		categories: toSet(sel.Categories),
		auth:       toSet(sel.Auth),
		cors:       toSet(sel.Cors),
	}
	_, m.noAuth = m.auth[NoAuth]
	_, m.corsYes = m.cors[CorsEnabled]
	_, m.corsNo = m.cors[CorsDisabled]
	return m
}

func (m *matcher) match(a *models.API) bool {
	return m.matchQuery(a) && m.matchCategory(a) && m.matchAuth(a) && m.matchCors(a)
}

func (m *matcher) matchQuery(a *models.API) bool {
	if m.query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Name), m.query) ||
		strings.Contains(strings.ToLower(a.Description), m.query)
}

func (m *matcher) matchCategory(a *models.API) bool {
	if len(m.categories) == 0 {
		return true
	}
	_, ok := m.categories[a.CategoryName]
	return ok
}

func (m *matcher) matchAuth(a *models.API) bool {
	if len(m.auth) == 0 {
		return true
	}
	if m.noAuth && a.Auth == "" {
		return true
	}
	_, ok := m.auth[a.Auth]
	return ok
}

func (m *matcher) matchCors(a *models.API) bool {
	if len(m.cors) == 0 {
		return true
	}
	if m.corsYes && a.Cors == models.CorsYes {
		return true
	}
	if m.corsNo && a.Cors == models.CorsNo {
		return true
	}
	_, ok := m.cors[a.Cors]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
