// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"coursely/internal/design"
	"coursely/internal/engine"
	"coursely/internal/middleware"
)

// Public serves formation sales pages. It checks the Valkey page cache
// before loading content and rendering, and stores rendered results on miss.
type Public struct {
	engine     *engine.Engine
	formations FormationStore
	pageCache  PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(eng *engine.Engine, formations FormationStore, pageCache PageCache) *Public {
	return &Public{
		engine:     eng,
		formations: formations,
		pageCache:  pageCache,
	}
}

// SalesPage renders the public sales page of a formation. Unpublished
// formations are not found, except for their creator asking for
// ?preview=1. Previews are never cached.
func (p *Public) SalesPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	wantsPreview := r.URL.Query().Get("preview") == "1"
	gen := int64(-1)
	if !wantsPreview {
		if cached, ok := p.pageCache.Get(ctx, id); ok {
			writeHTML(w, cached)
			return
		}
		// Read before the store so a save landing mid-render is detected.
		gen = p.pageCache.Generation(ctx, id)
	}

	content, err := p.formations.FindContent(ctx, id)
	if err != nil {
		slog.Error("find formation content failed", "error", err, "formation_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if content == nil {
		http.NotFound(w, r)
		return
	}

	userID := middleware.UserIDFromCtx(ctx)
	preview := wantsPreview && userID != uuid.Nil && content.CreatorID == userID
	if !content.Published && !preview {
		http.NotFound(w, r)
		return
	}

	stored, err := p.formations.FindDesign(ctx, id)
	if err != nil {
		slog.Error("find formation design failed", "error", err, "formation_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	var partial *design.PartialConfiguration
	if stored != nil {
		partial = design.Decode(stored.Config)
	}

	page, err := p.engine.Render(design.Resolve(partial), content)
	if err != nil {
		slog.Error("render sales page failed", "error", err, "formation_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if preview {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("X-Robots-Tag", "noindex")
	} else {
		p.pageCache.Set(ctx, id, gen, page.HTML)
	}
	writeHTML(w, page.HTML)
}
