// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Development seed credentials.
const (
	seedEmail    = "creator@coursely.local"
	seedPassword = "creator"
)

type seedModule struct {
	title   string
	lessons []seedLesson
}

type seedLesson struct {
	title    string
	summary  string
	duration int
}

var seedModules = []seedModule{
	{title: "Getting started", lessons: []seedLesson{
		{title: "Welcome", summary: "What this formation covers", duration: 180},
		{title: "Setting up your workspace", summary: "Tools you need", duration: 540},
	}},
	{title: "Building your first product", lessons: []seedLesson{
		{title: "Finding your audience", duration: 900},
		{title: "Writing a sales page that converts", duration: 1200},
		{title: "Pricing your course", duration: 780},
	}},
}

// Seed populates the database with a creator and one published formation
// whose design has never been saved. It is a no-op when users exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var userID string
	if err := tx.QueryRow(`
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`, seedEmail, string(hash), "Camille Martin").Scan(&userID); err != nil {
		return fmt.Errorf("seed insert creator: %w", err)
	}

	var formationID string
	if err := tx.QueryRow(`
		INSERT INTO formations (creator_id, title, pitch, description, price_cents, currency, published)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id
	`, userID,
		"Launch Your Online Course",
		"From idea to first sale in six weeks.",
		"A hands-on formation for **first-time creators**.\n\n- Validate your idea\n- Record your lessons\n- Sell with confidence",
		int64(14900), "EUR",
	).Scan(&formationID); err != nil {
		return fmt.Errorf("seed insert formation: %w", err)
	}

	for i, m := range seedModules {
		var moduleID string
		if err := tx.QueryRow(`
			INSERT INTO modules (formation_id, title, position) VALUES ($1, $2, $3) RETURNING id
		`, formationID, m.title, i+1).Scan(&moduleID); err != nil {
			return fmt.Errorf("seed insert module: %w", err)
		}
		for j, l := range m.lessons {
			if _, err := tx.Exec(`
				INSERT INTO lessons (module_id, title, summary, duration_seconds, position)
				VALUES ($1, $2, $3, $4, $5)
			`, moduleID, l.title, l.summary, l.duration, j+1); err != nil {
				return fmt.Errorf("seed insert lesson: %w", err)
			}
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO testimonials (formation_id, author_name, author_title, quote, rating, position)
		VALUES ($1, $2, $3, $4, $5, 1), ($1, $6, $7, $8, $9, 2)
	`, formationID,
		"Léa Dubois", "Yoga teacher", "I sold my first course two weeks after finishing.", 5,
		"Marc Petit", "Photographer", "Clear, practical and to the point.", 4,
	); err != nil {
		return fmt.Errorf("seed insert testimonials: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo creator and formation",
		"email", seedEmail,
		"password", seedPassword,
		"formation_id", formationID,
	)
	return nil
}
