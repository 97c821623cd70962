package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, limiter *middleware.RateLimiter) {
	r.Route("/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(rateLimited(limiter))

			// POST /v1/auth/signup - register or resend confirmation code
			r.Post("/signup", authHandler.Signup)

			// POST /v1/auth/token - exchange confirmation code for a token
			r.Post("/token", authHandler.Token)
		})

		// ==================== PROTECTED ROUTES ====================
		// POST /v1/auth/logout - revoke the current token
		r.With(middleware.RequireAuth).Post("/logout", authHandler.Logout)
	})
}
