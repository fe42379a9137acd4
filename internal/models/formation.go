// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the records owned by the storage layer and the
// read views the rendering engine consumes.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Formation is a sellable online course owned by a creator.
type Formation struct {
	ID            uuid.UUID `json:"id"`
	CreatorID     uuid.UUID `json:"creator_id"`
	Title         string    `json:"title"`
	Pitch         string    `json:"pitch"`
	Description   string    `json:"description"` // Markdown
	CoverImageURL string    `json:"cover_image_url"`
	PriceCents    int64     `json:"price_cents"`
	Currency      string    `json:"currency"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Module is an ordered chapter of a formation.
type Module struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
	Lessons  []Lesson  `json:"lessons"`
}

// Lesson is a single unit inside a module.
type Lesson struct {
	ID              uuid.UUID `json:"id"`
	ModuleID        uuid.UUID `json:"module_id"`
	Title           string    `json:"title"`
	Summary         string    `json:"summary"`
	DurationSeconds int       `json:"duration_seconds"`
	Position        int       `json:"position"`
}

// Testimonial is a student quote shown on the sales page.
type Testimonial struct {
	ID          uuid.UUID `json:"id"`
	AuthorName  string    `json:"author_name"`
	AuthorTitle string    `json:"author_title"`
	Quote       string    `json:"quote"`
	Rating      int       `json:"rating"` // 0 means unrated, otherwise 1..5
	Position    int       `json:"position"`
}

// Creator is the public identity of a formation's owner.
type Creator struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
}

// FormationContent is the read-only view the sales page renders from.
// Modules and their lessons, and testimonials, are in display order.
type FormationContent struct {
	Formation
	Creator      Creator       `json:"creator"`
	Modules      []Module      `json:"modules"`
	Testimonials []Testimonial `json:"testimonials"`
}

// LessonCount returns the number of lessons across all modules.
func (c *FormationContent) LessonCount() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Lessons)
	}
	return n
}

// TotalDuration returns the summed lesson duration.
func (c *FormationContent) TotalDuration() time.Duration {
	var total time.Duration
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			total += time.Duration(l.DurationSeconds) * time.Second
		}
	}
	return total
}

// FormationDesign is the stored design configuration of a formation along
// with the fields needed to authorize access to it. Config is nil when the
// creator has never saved a design.
type FormationDesign struct {
	FormationID uuid.UUID       `json:"formation_id"`
	CreatorID   uuid.UUID       `json:"creator_id"`
	Config      json.RawMessage `json:"config"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OwnedBy reports whether userID owns the formation.
func (d *FormationDesign) OwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && d.CreatorID == userID
}
