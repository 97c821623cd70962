package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTitle(
	r chi.Router,
	titleHandler *adaptor.TitleHandler,
	reviewHandler *adaptor.ReviewHandler,
	commentHandler *adaptor.CommentHandler,
	log *zap.Logger,
) {
	r.Route("/titles", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOrReadOnly(log))

			// GET /v1/titles?name=&year=&genre=&category= (public)
			r.Get("/", titleHandler.List)
			r.Post("/", titleHandler.Create)

			r.Get("/{title_id}", titleHandler.Get)
			r.Patch("/{title_id}", titleHandler.Update)
			r.Delete("/{title_id}", titleHandler.Delete)
		})

		wireReview(r, reviewHandler, commentHandler)
	})
}
