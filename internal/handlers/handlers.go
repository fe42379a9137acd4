// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers for public sales pages and
// the design editor API.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"coursely/internal/models"
)

// maxDesignBody caps design update and preview payloads.
const maxDesignBody = 64 << 10

// FormationStore is the record store the handlers read from and write to.
// *store.FormationStore satisfies it.
type FormationStore interface {
	FindContent(ctx context.Context, id uuid.UUID) (*models.FormationContent, error)
	FindDesign(ctx context.Context, id uuid.UUID) (*models.FormationDesign, error)
	SaveDesign(ctx context.Context, id, userID uuid.UUID, config []byte) error
}

// PageCache holds rendered sales pages. *cache.PageCache satisfies it.
// Set only stores the page while the generation read before rendering is
// still current.
type PageCache interface {
	Get(ctx context.Context, formationID uuid.UUID) ([]byte, bool)
	Generation(ctx context.Context, formationID uuid.UUID) int64
	Set(ctx context.Context, formationID uuid.UUID, gen int64, html []byte)
	Invalidate(ctx context.Context, formationID uuid.UUID)
}

// errorResponse is the JSON body of every API error.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("write json response failed", "error", err)
	}
}

// writeError writes {"error": msg} with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeHTML writes a rendered page.
func writeHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// parseID reads a formation UUID from a URL parameter. Malformed IDs
// cannot name a formation, so callers answer them with 404.
func parseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Health returns a simple JSON health check response.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
