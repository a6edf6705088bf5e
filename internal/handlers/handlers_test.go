// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handlers_test.go provides shared fakes. Handlers run against a real
// catalog.Holder, resolver and renderer with in-memory sources, so no
// database is needed.
package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"apifinder/internal/catalog"
	"apifinder/internal/models"
	"apifinder/internal/render"
	"apifinder/internal/resolver"
)

var errStore = errors.New("connection refused")

func ptr[T any](v T) *T { return &v }

func fixtureAPIs() []models.API {
	return []models.API{
		{ID: 1, Name: "Cat Facts", Description: "Daily cat facts", Auth: "", HTTPS: true, Cors: "no", CategoryID: ptr(int64(1)), CategoryName: "Animals"},
		{ID: 2, Name: "Dog CEO", Description: "Random pictures of dogs", Auth: "", HTTPS: true, Cors: "yes", CategoryID: ptr(int64(1)), CategoryName: "Animals"},
		{ID: 3, Name: "OpenWeatherMap", Description: "Weather forecasts", Auth: "apiKey", HTTPS: true, Cors: "unknown", CategoryID: ptr(int64(2)), CategoryName: "Weather"},
		{ID: 4, Name: "Open-Meteo", Description: "Global weather forecast API", Auth: "", HTTPS: true, Cors: "yes", CategoryID: ptr(int64(2)), CategoryName: "Weather"},
	}
}

// fakeLoader is a scripted catalog.SnapshotLoader.
type fakeLoader struct {
	mu    sync.Mutex
	errs  []error // consumed in order, nil entries succeed
	calls int
}

func (f *fakeLoader) Load(context.Context) (*catalog.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return catalog.NewSnapshot(fixtureAPIs(), []models.Category{
		{ID: 1, Name: "Animals", Slug: "animals"},
		{ID: 2, Name: "Weather", Slug: "weather"},
	}), nil
}

// fakeStore backs the resolver and the JSON endpoints.
type fakeStore struct {
	apis []models.API
	err  error
}

func (f *fakeStore) LoadAPIs(context.Context) ([]models.API, error) {
	return f.apis, f.err
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (*models.API, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.apis {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Search(_ context.Context, term, category string) ([]models.API, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.API
	for _, a := range f.apis {
		if category != "" && a.CategoryName != category {
			continue
		}
		if term != "" && a.Name != term {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) List(context.Context) ([]models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Category{{ID: 1, Name: "Animals", Slug: "animals"}}, nil
}

func (f *fakeStore) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	if slug == "animals" {
		return &models.Category{ID: 1, Name: "Animals", Slug: "animals"}, nil
	}
	return nil, nil
}

type testEnv struct {
	Loader   *fakeLoader
	Holder   *catalog.Holder
	Store    *fakeStore
	Renderer *render.Renderer
	Catalog  *Catalog
	Pages    *Pages
	Forms    *Forms
	JSON     *JSON
}

func newTestEnv(t *testing.T, loadErrs ...error) *testEnv {
	t.Helper()
	rn, err := render.New()
	require.NoError(t, err)

	loader := &fakeLoader{errs: loadErrs}
	holder := catalog.NewHolder(loader)
	st := &fakeStore{apis: fixtureAPIs()}

	return &testEnv{
		Loader:   loader,
		Holder:   holder,
		Store:    st,
		Renderer: rn,
		Catalog:  NewCatalog(holder, resolver.New(st, st), st, rn, nil),
		Pages:    NewPages(rn, nil, holder, PingFunc(func(context.Context) error { return nil }), nil),
		Forms:    NewForms(rn),
		JSON:     NewJSON(st, st),
	}
}
