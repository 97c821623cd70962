package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireCatalog registers categories and genres. Items are addressed by slug
// and only support DELETE; other methods on a slug answer 405.
func wireCatalog(
	r chi.Router,
	categoryHandler *adaptor.CategoryHandler,
	genreHandler *adaptor.GenreHandler,
	log *zap.Logger,
) {
	r.Route("/categories", func(r chi.Router) {
		r.Use(middleware.AdminOrReadOnly(log))

		r.Get("/", categoryHandler.List)
		r.Post("/", categoryHandler.Create)
		r.Delete("/{slug}", categoryHandler.Delete)
	})

	r.Route("/genres", func(r chi.Router) {
		r.Use(middleware.AdminOrReadOnly(log))

		r.Get("/", genreHandler.List)
		r.Post("/", genreHandler.Create)
		r.Delete("/{slug}", genreHandler.Delete)
	})
}
