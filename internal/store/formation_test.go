// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

var (
	formationID = uuid.MustParse("a3c1b0de-1111-4c3b-9a57-5d0b7ad0e001")
	creatorID   = uuid.MustParse("a3c1b0de-2222-4c3b-9a57-5d0b7ad0e002")
	moduleA     = uuid.MustParse("a3c1b0de-3333-4c3b-9a57-5d0b7ad0e003")
	moduleB     = uuid.MustParse("a3c1b0de-4444-4c3b-9a57-5d0b7ad0e004")
	lessonA1    = uuid.MustParse("a3c1b0de-5555-4c3b-9a57-5d0b7ad0e005")
	lessonA2    = uuid.MustParse("a3c1b0de-6666-4c3b-9a57-5d0b7ad0e006")
)

func newMock(t *testing.T) (*FormationStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return NewFormationStore(db), mock
}

var formationColumns = []string{
	"id", "creator_id", "title", "pitch", "description", "cover_image_url",
	"price_cents", "currency", "published", "created_at", "updated_at",
	"creator_id", "display_name",
}

func TestFindContent(t *testing.T) {
	s, mock := newMock(t)
	now := time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM formations f")).
		WithArgs(formationID).
		WillReturnRows(sqlmock.NewRows(formationColumns).AddRow(
			formationID.String(), creatorID.String(), "Go in Practice", "Ship it", "**hi**", "",
			int64(0), "EUR", true, now, now,
			creatorID.String(), "Ada",
		))

	mock.ExpectQuery(regexp.QuoteMeta("FROM modules m")).
		WithArgs(formationID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "position", "lesson_id", "lesson_title", "summary", "duration_seconds", "lesson_position",
		}).
			AddRow(moduleA.String(), "Basics", 1, lessonA1.String(), "Types", "", int64(300), int64(1)).
			AddRow(moduleA.String(), "Basics", 1, lessonA2.String(), "Errors", "wrapping", int64(600), int64(2)).
			AddRow(moduleB.String(), "Empty module", 2, nil, nil, nil, nil, nil))

	mock.ExpectQuery(regexp.QuoteMeta("FROM testimonials")).
		WithArgs(formationID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_name", "author_title", "quote", "rating", "position"}).
			AddRow(uuid.NewString(), "Grace", "Engineer", "Great", 5, 1))

	c, err := s.FindContent(context.Background(), formationID)
	if err != nil {
		t.Fatalf("FindContent: %v", err)
	}
	if c == nil {
		t.Fatal("expected content, got nil")
	}
	if c.Title != "Go in Practice" || c.Creator.DisplayName != "Ada" || !c.Published {
		t.Errorf("unexpected formation: %+v", c.Formation)
	}
	if c.PriceCents != 0 {
		t.Errorf("PriceCents: got %d, want 0", c.PriceCents)
	}
	if len(c.Modules) != 2 {
		t.Fatalf("modules: got %d, want 2", len(c.Modules))
	}
	if got := len(c.Modules[0].Lessons); got != 2 {
		t.Errorf("first module lessons: got %d, want 2", got)
	}
	if c.Modules[0].Lessons[1].Summary != "wrapping" || c.Modules[0].Lessons[1].ModuleID != moduleA {
		t.Errorf("unexpected lesson: %+v", c.Modules[0].Lessons[1])
	}
	if got := len(c.Modules[1].Lessons); got != 0 {
		t.Errorf("empty module lessons: got %d, want 0", got)
	}
	if len(c.Testimonials) != 1 || c.Testimonials[0].Rating != 5 {
		t.Errorf("unexpected testimonials: %+v", c.Testimonials)
	}
}

func TestFindContentNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM formations f")).
		WithArgs(formationID).
		WillReturnRows(sqlmock.NewRows(formationColumns))

	c, err := s.FindContent(context.Background(), formationID)
	if err != nil {
		t.Fatalf("FindContent: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil for missing formation, got %+v", c)
	}
}

func TestFindContentQueryError(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM formations f")).
		WithArgs(formationID).
		WillReturnError(errors.New("connection reset"))

	_, err := s.FindContent(context.Background(), formationID)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestFindDesign(t *testing.T) {
	now := time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC)
	columns := []string{"id", "creator_id", "template_config", "updated_at"}

	t.Run("stored config", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, creator_id, template_config")).
			WithArgs(formationID).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				formationID.String(), creatorID.String(), []byte(`{"template":"bold"}`), now,
			))

		d, err := s.FindDesign(context.Background(), formationID)
		if err != nil {
			t.Fatalf("FindDesign: %v", err)
		}
		if d == nil || string(d.Config) != `{"template":"bold"}` {
			t.Fatalf("unexpected design: %+v", d)
		}
		if !d.OwnedBy(creatorID) {
			t.Error("creator should own the design")
		}
	})

	t.Run("no config yet", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, creator_id, template_config")).
			WithArgs(formationID).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				formationID.String(), creatorID.String(), nil, now,
			))

		d, err := s.FindDesign(context.Background(), formationID)
		if err != nil {
			t.Fatalf("FindDesign: %v", err)
		}
		if d == nil {
			t.Fatal("expected design row")
		}
		if d.Config != nil {
			t.Errorf("Config: got %q, want nil", d.Config)
		}
	})

	t.Run("missing formation", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, creator_id, template_config")).
			WithArgs(formationID).
			WillReturnRows(sqlmock.NewRows(columns))

		d, err := s.FindDesign(context.Background(), formationID)
		if err != nil {
			t.Fatalf("FindDesign: %v", err)
		}
		if d != nil {
			t.Errorf("expected nil, got %+v", d)
		}
	})
}

func TestSaveDesign(t *testing.T) {
	payload := []byte(`{"template":"premium","sections":{"faq":{"enabled":false,"order":2}}}`)
	lock := regexp.QuoteMeta("SELECT creator_id FROM formations WHERE id = $1 FOR UPDATE")

	t.Run("owner writes verbatim", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lock).
			WithArgs(formationID).
			WillReturnRows(sqlmock.NewRows([]string{"creator_id"}).AddRow(creatorID.String()))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE formations SET template_config")).
			WithArgs(string(payload), formationID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		if err := s.SaveDesign(context.Background(), formationID, creatorID, payload); err != nil {
			t.Fatalf("SaveDesign: %v", err)
		}
	})

	t.Run("not owner", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lock).
			WithArgs(formationID).
			WillReturnRows(sqlmock.NewRows([]string{"creator_id"}).AddRow(creatorID.String()))
		mock.ExpectRollback()

		err := s.SaveDesign(context.Background(), formationID, uuid.New(), payload)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lock).
			WithArgs(formationID).
			WillReturnRows(sqlmock.NewRows([]string{"creator_id"}).AddRow(creatorID.String()))
		mock.ExpectRollback()

		err := s.SaveDesign(context.Background(), formationID, uuid.Nil, payload)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("missing formation", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lock).
			WithArgs(formationID).
			WillReturnRows(sqlmock.NewRows([]string{"creator_id"}))
		mock.ExpectRollback()

		err := s.SaveDesign(context.Background(), formationID, creatorID, payload)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update failure", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lock).
			WithArgs(formationID).
			WillReturnRows(sqlmock.NewRows([]string{"creator_id"}).AddRow(creatorID.String()))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE formations SET template_config")).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := s.SaveDesign(context.Background(), formationID, creatorID, payload)
		if err == nil || errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotFound) {
			t.Errorf("expected wrapped database error, got %v", err)
		}
	})
}
