// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID.
	UserIDKey contextKey = "user_id"
)

// UserResolver returns the authenticated user of a request, or uuid.Nil.
// *session.Store satisfies it.
type UserResolver interface {
	CurrentUserID(ctx context.Context, r *http.Request) (uuid.UUID, error)
}

// LoadSession resolves the current user from the session and stores the
// ID in the request context. Downstream handlers read it via
// UserIDFromCtx(). This middleware does NOT enforce authentication; it
// just loads the user if there is one.
func LoadSession(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := users.CurrentUserID(r.Context(), r)
			if err != nil {
				// Treat as unauthenticated; a broken session must not take
				// the public sales pages down.
				slog.Warn("session load failed", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			if userID != uuid.Nil {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects anonymous requests with a JSON 401.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFromCtx(r.Context()) == uuid.Nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserIDFromCtx returns the authenticated user's ID, or uuid.Nil for
// anonymous requests.
func UserIDFromCtx(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(UserIDKey).(uuid.UUID)
	return id
}
