package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures user management routes with role-based access control
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, log *zap.Logger) {
	r.Route("/users", func(r chi.Router) {
		// ==================== SELF ROUTES ====================
		// static /me takes precedence over /{username}
		r.With(middleware.RequireAuth).Get("/me", userHandler.GetMe)
		r.With(middleware.RequireAuth).Patch("/me", userHandler.UpdateMe)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.Admin(log))

			// GET/POST /v1/users?search=&page=1&per_page=10
			r.Get("/", userHandler.List)
			r.Post("/", userHandler.Create)

			// GET/PATCH/DELETE /v1/users/{username}
			r.Get("/{username}", userHandler.Get)
			r.Patch("/{username}", userHandler.Update)
			r.Delete("/{username}", userHandler.Delete)
		})
	})
}
