// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package resolver maps the identifier in a detail URL back to a catalog
// entry. Numeric identifiers are store IDs; anything else is treated as a
// slug derived from the entry's name.
//
// No slug column is stored, so slug resolution is a heuristic: the slug is
// split into tokens and the first entry whose name contains all of them
// wins. Names that reduce to overlapping token sets cannot be told apart.
package resolver

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"apifinder/internal/models"
	"apifinder/internal/slug"
)

// CatalogLoader returns the full catalog in catalog order.
type CatalogLoader interface {
	LoadAPIs(ctx context.Context) ([]models.API, error)
}

// Finder looks up a single entry by store ID. It returns nil, nil when no
// such entry exists.
type Finder interface {
	FindByID(ctx context.Context, id int64) (*models.API, error)
}

// Resolver resolves detail identifiers.
type Resolver struct {
	loader CatalogLoader
	finder Finder
}

// New returns a Resolver.
func New(loader CatalogLoader, finder Finder) *Resolver {
	return &Resolver{loader: loader, finder: finder}
}

// Resolve dispatches on the identifier's form. A positive integer is
// looked up by ID; anything else is resolved as a slug. Not found is
// reported as nil, nil.
func (r *Resolver) Resolve(ctx context.Context, ident string) (*models.API, error) {
	if id, ok := parseID(ident); ok {
		return r.ResolveByID(ctx, id)
	}
	return r.ResolveBySlug(ctx, ident)
}

// ResolveByID performs a keyed lookup.
func (r *Resolver) ResolveByID(ctx context.Context, id int64) (*models.API, error) {
	a, err := r.finder.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve id %d: %w", id, err)
	}
	return a, nil
}

// ResolveBySlug re-reads the full catalog and returns the first entry whose
// lower-cased name contains every slug token of at least slug.MinTokenLen
// characters. A slug with no such tokens matches nothing.
func (r *Resolver) ResolveBySlug(ctx context.Context, s string) (*models.API, error) {
	tokens := slug.Tokens(s)
	if len(tokens) == 0 {
		return nil, nil
	}

	apis, err := r.loader.LoadAPIs(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve slug %q: %w", s, err)
	}
	return Match(apis, tokens), nil
}

// Match returns the first entry in apis whose name contains every token,
// or nil.
func Match(apis []models.API, tokens []string) *models.API {
	for i := range apis {
		if slug.MatchesAll(apis[i].Name, tokens) {
			a := apis[i]
			return &a
		}
	}
	return nil
}

// Key reduces ident to the form resolution depends on: "id:<n>" for
// numeric identifiers, otherwise "slug:" followed by the sorted distinct
// tokens. Identifiers with the same key always resolve to the same entry.
// A slug with no usable tokens has an empty key.
func Key(ident string) string {
	if id, ok := parseID(ident); ok {
		return "id:" + strconv.FormatInt(id, 10)
	}
	tokens := slug.Tokens(ident)
	if len(tokens) == 0 {
		return ""
	}
	slices.Sort(tokens)
	return "slug:" + strings.Join(slices.Compact(tokens), "-")
}

// parseID reports whether ident is a positive base-10 integer.
func parseID(ident string) (int64, bool) {
	id, err := strconv.ParseInt(ident, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
