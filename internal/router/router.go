// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains. It
// organizes routes into the public sales pages and the design editor API
// with appropriate middleware stacks.
package router

import (
	"github.com/go-chi/chi/v5"

	"coursely/internal/handlers"
	"coursely/internal/middleware"
)

// Deps carries everything the route table needs.
type Deps struct {
	Sessions      middleware.UserResolver
	Public        *handlers.Public
	Designer      *handlers.Designer
	DesignLimiter *middleware.RateLimiter // limits design saves; nil disables
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check: no auth, no CSRF.
	r.Get("/health", handlers.Health)

	// Public sales pages.
	r.Get("/f/{id}", d.Public.SalesPage)

	// Design editor API.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF(d.SecureCookies))

		r.Get("/design/defaults/{variant}", d.Designer.Defaults)

		r.Route("/formations/{id}/design", func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/", d.Designer.Show)
			r.Post("/preview", d.Designer.Preview)

			r.Group(func(r chi.Router) {
				if d.DesignLimiter != nil {
					r.Use(d.DesignLimiter.Middleware)
				}
				r.Put("/", d.Designer.Update)
			})
		})
	})

	return r
}
