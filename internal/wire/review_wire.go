package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

// wireReview nests reviews under titles and comments under reviews. Reads are
// public; writes need a user, and the service checks author-or-staff for
// changes to existing content.
func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, commentHandler *adaptor.CommentHandler) {
	r.Route("/{title_id}/reviews", func(r chi.Router) {
		r.Use(middleware.AuthenticatedOrReadOnly)

		r.Get("/", reviewHandler.List)
		r.Post("/", reviewHandler.Create)
		r.Get("/{review_id}", reviewHandler.Get)
		r.Patch("/{review_id}", reviewHandler.Update)
		r.Delete("/{review_id}", reviewHandler.Delete)

		r.Route("/{review_id}/comments", func(r chi.Router) {
			r.Get("/", commentHandler.List)
			r.Post("/", commentHandler.Create)
			r.Get("/{comment_id}", commentHandler.Get)
			r.Patch("/{comment_id}", commentHandler.Update)
			r.Delete("/{comment_id}", commentHandler.Delete)
		})
	})
}
