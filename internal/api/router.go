package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finleydale/gatehouse/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			// Credential endpoints: rate limited, no auth required
			r.Group(func(r chi.Router) {
				r.Use(s.rateLimitMiddleware)
				r.Post("/signup", s.handleSignup)
				r.Post("/signin", s.handleSignin)
			})

			// Refresh requires a valid refresh cookie
			r.With(s.requireRefresh).Post("/refresh", s.handleRefresh)

			// Sign-out succeeds even with an expired or missing session
			r.With(s.optionalAccess).Post("/signout", s.handleSignout)

			// Profile endpoints require an access token
			r.Group(func(r chi.Router) {
				r.Use(s.requireAccess)
				r.Get("/me", s.handleProfile)
				r.Put("/me", s.handleUpdateProfile)
				r.Put("/password", s.handleChangePassword)
			})
		})

		// Admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(s.requireAccess)
			r.Use(s.requireRole(auth.RoleAdmin))
			r.Get("/users", s.handleListUsers)
			r.Get("/audit", s.handleListAudit)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
