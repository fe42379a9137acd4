// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"coursely/internal/design"
	"coursely/internal/engine"
	"coursely/internal/middleware"
	"coursely/internal/store"
)

// Designer groups the JSON endpoints used by the design editor.
type Designer struct {
	engine     *engine.Engine
	formations FormationStore
	pageCache  PageCache
}

// NewDesigner creates a new Designer handler group.
func NewDesigner(eng *engine.Engine, formations FormationStore, pageCache PageCache) *Designer {
	return &Designer{
		engine:     eng,
		formations: formations,
		pageCache:  pageCache,
	}
}

// designResponse is returned by Show: the creator's stored configuration
// exactly as saved (null before the first save) next to what renders.
type designResponse struct {
	Stored    json.RawMessage      `json:"stored"`
	Resolved  design.Configuration `json:"resolved"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Defaults returns the registry default of a template variant.
func (d *Designer) Defaults(w http.ResponseWriter, r *http.Request) {
	variant := design.Variant(chi.URLParam(r, "variant"))
	cfg, ok := design.Lookup(variant)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown template")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, cfg)
}

// Show returns the stored and resolved design of a formation to its creator.
func (d *Designer) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "formation not found")
		return
	}

	stored, err := d.formations.FindDesign(ctx, id)
	if err != nil {
		slog.Error("find formation design failed", "error", err, "formation_id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if stored == nil {
		writeError(w, http.StatusNotFound, "formation not found")
		return
	}
	if !stored.OwnedBy(middleware.UserIDFromCtx(ctx)) {
		writeError(w, http.StatusForbidden, "not your formation")
		return
	}

	resp := designResponse{
		Stored:    json.RawMessage("null"),
		Resolved:  design.Resolve(design.Decode(stored.Config)),
		UpdatedAt: stored.UpdatedAt,
	}
	if len(stored.Config) > 0 && json.Valid(stored.Config) {
		resp.Stored = stored.Config
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update validates and saves a design configuration, then drops the cached
// sales page. The body is stored as sent; the response is the resolved
// configuration that the sales page will now render with.
func (d *Designer) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "formation not found")
		return
	}

	raw, partial, ok := readDesign(w, r)
	if !ok {
		return
	}

	userID := middleware.UserIDFromCtx(ctx)
	if err := d.formations.SaveDesign(ctx, id, userID, raw); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "formation not found")
		case errors.Is(err, store.ErrForbidden):
			slog.Warn("design write rejected", "formation_id", id, "user_id", userID)
			writeError(w, http.StatusForbidden, "not your formation")
		default:
			slog.Error("save formation design failed", "error", err, "formation_id", id)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	d.pageCache.Invalidate(ctx, id)

	resolved := design.Resolve(partial)
	slog.Info("formation design saved",
		"formation_id", id,
		"user_id", userID,
		"template", resolved.Template,
	)
	writeJSON(w, http.StatusOK, resolved)
}

// Preview renders a draft configuration against the formation's content
// without saving it.
func (d *Designer) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "formation not found")
		return
	}

	content, err := d.formations.FindContent(ctx, id)
	if err != nil {
		slog.Error("find formation content failed", "error", err, "formation_id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if content == nil {
		writeError(w, http.StatusNotFound, "formation not found")
		return
	}
	if userID := middleware.UserIDFromCtx(ctx); userID == uuid.Nil || content.CreatorID != userID {
		writeError(w, http.StatusForbidden, "not your formation")
		return
	}

	_, partial, ok := readDesign(w, r)
	if !ok {
		return
	}

	page, err := d.engine.Render(design.Resolve(partial), content)
	if err != nil {
		slog.Error("render design preview failed", "error", err, "formation_id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Robots-Tag", "noindex")
	writeHTML(w, page.HTML)
}

// readDesign reads and validates a design payload, writing the error
// response itself when the body is too large or malformed.
func readDesign(w http.ResponseWriter, r *http.Request) ([]byte, *design.PartialConfiguration, bool) {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		writeError(w, http.StatusUnsupportedMediaType, "expected application/json")
		return nil, nil, false
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDesignBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "design payload too large")
			return nil, nil, false
		}
		writeError(w, http.StatusBadRequest, "could not read request body")
		return nil, nil, false
	}

	partial, err := design.ParseUpdate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	return raw, partial, true
}
