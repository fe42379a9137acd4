// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// an in-memory formation store, a miniredis-backed page cache, and a chi
// router wired like production minus CSRF and rate limiting.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"coursely/internal/cache"
	"coursely/internal/engine"
	"coursely/internal/middleware"
	"coursely/internal/models"
	"coursely/internal/store"
)

// testUserHeader carries the signed-in user in tests in place of a real
// session cookie.
const testUserHeader = "X-Test-User"

// memStore is an in-memory FormationStore with the same ownership and
// not-found semantics as store.FormationStore.
type memStore struct {
	mu       sync.Mutex
	contents map[uuid.UUID]*models.FormationContent
	configs  map[uuid.UUID][]byte
	saves    int
	err      error // returned by every call when set

	// afterFindDesign runs once FindDesign has read its snapshot, outside
	// the lock, to interleave writes with an in-flight render.
	afterFindDesign func()
}

func newMemStore() *memStore {
	return &memStore{
		contents: make(map[uuid.UUID]*models.FormationContent),
		configs:  make(map[uuid.UUID][]byte),
	}
}

func (m *memStore) add(c *models.FormationContent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contents[c.ID] = c
}

func (m *memStore) FindContent(_ context.Context, id uuid.UUID) (*models.FormationContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.contents[id], nil
}

func (m *memStore) FindDesign(_ context.Context, id uuid.UUID) (*models.FormationDesign, error) {
	d, hook, err := m.findDesign(id)
	if hook != nil {
		hook()
	}
	return d, err
}

func (m *memStore) findDesign(id uuid.UUID) (*models.FormationDesign, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hook := m.afterFindDesign
	m.afterFindDesign = nil
	if m.err != nil {
		return nil, hook, m.err
	}
	c, ok := m.contents[id]
	if !ok {
		return nil, hook, nil
	}
	return &models.FormationDesign{
		FormationID: c.ID,
		CreatorID:   c.CreatorID,
		Config:      m.configs[id],
		UpdatedAt:   c.UpdatedAt,
	}, hook, nil
}

func (m *memStore) SaveDesign(_ context.Context, id, userID uuid.UUID, config []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	c, ok := m.contents[id]
	if !ok {
		return store.ErrNotFound
	}
	if userID == uuid.Nil || c.CreatorID != userID {
		return store.ErrForbidden
	}
	m.configs[id] = append([]byte(nil), config...)
	m.saves++
	return nil
}

func (m *memStore) config(id uuid.UUID) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.configs[id]
}

// testEnv bundles the pieces a handler test inspects.
type testEnv struct {
	store  *memStore
	cache  *cache.PageCache
	valkey *miniredis.Miniredis
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	eng, err := engine.New(nil)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	pc := cache.NewPageCache(client, time.Minute)

	ms := newMemStore()
	public := NewPublic(eng, ms, pc)
	designer := NewDesigner(eng, ms, pc)

	r := chi.NewRouter()
	r.Use(fakeSession)
	r.Get("/health", Health)
	r.Get("/f/{id}", public.SalesPage)
	r.Route("/api", func(r chi.Router) {
		r.Get("/design/defaults/{variant}", designer.Defaults)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/formations/{id}/design", designer.Show)
			r.Put("/formations/{id}/design", designer.Update)
			r.Post("/formations/{id}/design/preview", designer.Preview)
		})
	})

	return &testEnv{store: ms, cache: pc, valkey: mr, router: r}
}

// fakeSession puts the user named by testUserHeader into the context the
// way middleware.LoadSession does.
func fakeSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := uuid.Parse(r.Header.Get(testUserHeader)); err == nil {
			r = r.WithContext(middleware.WithUserID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// do sends a request as user (uuid.Nil for anonymous).
func (e *testEnv) do(t *testing.T, method, path string, user uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != uuid.Nil {
		req.Header.Set(testUserHeader, user.String())
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// sampleFormation returns a published formation with one module, one
// lesson, and one testimonial.
func sampleFormation(creator uuid.UUID) *models.FormationContent {
	id := uuid.New()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &models.FormationContent{
		Formation: models.Formation{
			ID:          id,
			CreatorID:   creator,
			Title:       "Sourdough at Home",
			Pitch:       "Bake bread you are proud of.",
			Description: "Learn **fermentation** step by step.",
			PriceCents:  4900,
			Currency:    "eur",
			Published:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		Creator: models.Creator{ID: creator, DisplayName: "Noor Haddad"},
		Modules: []models.Module{{
			ID:    uuid.New(),
			Title: "Starter basics",
			Lessons: []models.Lesson{{
				ID: uuid.New(), Title: "Feeding schedule", DurationSeconds: 600,
			}},
		}},
		Testimonials: []models.Testimonial{{
			ID: uuid.New(), AuthorName: "Sam Lee", Quote: "My first loaf was perfect.", Rating: 5,
		}},
	}
}

var errDatabase = errors.New("connection refused")
