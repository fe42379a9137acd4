// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the record store for formations and their
// design configurations on PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"coursely/internal/models"
)

var (
	// ErrNotFound is returned by writes targeting a formation that does not exist.
	ErrNotFound = errors.New("formation not found")

	// ErrForbidden is returned when the caller does not own the formation.
	ErrForbidden = errors.New("formation not owned by user")
)

// FormationStore handles formation reads and design configuration writes.
type FormationStore struct {
	db *sql.DB
}

// NewFormationStore creates a new FormationStore with the given database connection.
func NewFormationStore(db *sql.DB) *FormationStore {
	return &FormationStore{db: db}
}

// FindContent loads a formation with its creator, ordered modules and
// lessons, and testimonials. Returns nil if the formation does not exist.
// Published is returned as stored; callers decide visibility.
func (s *FormationStore) FindContent(ctx context.Context, id uuid.UUID) (*models.FormationContent, error) {
	c := &models.FormationContent{}
	err := s.db.QueryRowContext(ctx, `
		SELECT f.id, f.creator_id, f.title, f.pitch, f.description, f.cover_image_url,
		       f.price_cents, f.currency, f.published, f.created_at, f.updated_at,
		       u.id, u.display_name
		FROM formations f
		JOIN users u ON u.id = f.creator_id
		WHERE f.id = $1
	`, id).Scan(
		&c.ID, &c.CreatorID, &c.Title, &c.Pitch, &c.Description, &c.CoverImageURL,
		&c.PriceCents, &c.Currency, &c.Published, &c.CreatedAt, &c.UpdatedAt,
		&c.Creator.ID, &c.Creator.DisplayName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find formation content: %w", err)
	}

	if c.Modules, err = s.listModules(ctx, id); err != nil {
		return nil, err
	}
	if c.Testimonials, err = s.listTestimonials(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

// listModules returns the formation's modules with their lessons, both in
// position order. A single join keeps it to one round trip.
func (s *FormationStore) listModules(ctx context.Context, formationID uuid.UUID) ([]models.Module, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.title, m.position,
		       l.id, l.title, l.summary, l.duration_seconds, l.position
		FROM modules m
		LEFT JOIN lessons l ON l.module_id = m.id
		WHERE m.formation_id = $1
		ORDER BY m.position, m.id, l.position, l.id
	`, formationID)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var modules []models.Module
	for rows.Next() {
		var (
			m        models.Module
			lessonID uuid.NullUUID
			title    sql.NullString
			summary  sql.NullString
			duration sql.NullInt64
			position sql.NullInt64
		)
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Position,
			&lessonID, &title, &summary, &duration, &position,
		); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}

		if n := len(modules); n == 0 || modules[n-1].ID != m.ID {
			modules = append(modules, m)
		}
		if lessonID.Valid {
			current := &modules[len(modules)-1]
			current.Lessons = append(current.Lessons, models.Lesson{
				ID:              lessonID.UUID,
				ModuleID:        current.ID,
				Title:           title.String,
				Summary:         summary.String,
				DurationSeconds: int(duration.Int64),
				Position:        int(position.Int64),
			})
		}
	}
	return modules, rows.Err()
}

// listTestimonials returns the formation's testimonials in position order.
func (s *FormationStore) listTestimonials(ctx context.Context, formationID uuid.UUID) ([]models.Testimonial, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, author_name, author_title, quote, rating, position
		FROM testimonials
		WHERE formation_id = $1
		ORDER BY position, id
	`, formationID)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	var items []models.Testimonial
	for rows.Next() {
		var t models.Testimonial
		if err := rows.Scan(&t.ID, &t.AuthorName, &t.AuthorTitle, &t.Quote, &t.Rating, &t.Position); err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// FindDesign returns the stored design configuration and ownership data
// of a formation. Returns nil if the formation does not exist. Config is
// nil while no design has been saved.
func (s *FormationStore) FindDesign(ctx context.Context, id uuid.UUID) (*models.FormationDesign, error) {
	d := &models.FormationDesign{}
	var raw []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, creator_id, template_config, updated_at
		FROM formations WHERE id = $1
	`, id).Scan(&d.FormationID, &d.CreatorID, &raw, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find formation design: %w", err)
	}
	if raw != nil {
		d.Config = raw
	}
	return d, nil
}

// SaveDesign stores a design configuration verbatim for a formation owned
// by userID. The last write wins. Returns ErrNotFound if the formation does
// not exist and ErrForbidden if userID is not its creator; neither case
// changes any state.
func (s *FormationStore) SaveDesign(ctx context.Context, id, userID uuid.UUID, config []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var creatorID uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT creator_id FROM formations WHERE id = $1 FOR UPDATE`, id).Scan(&creatorID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock formation: %w", err)
	}
	if userID == uuid.Nil || creatorID != userID {
		return ErrForbidden
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE formations SET template_config = $1, updated_at = NOW()
		WHERE id = $2
	`, string(config), id); err != nil {
		return fmt.Errorf("save formation design: %w", err)
	}

	return tx.Commit()
}
