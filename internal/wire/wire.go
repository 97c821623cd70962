package wire

import (
	"net/http"

	"yamdb/internal/adaptor"
	"yamdb/internal/data/repository"
	"yamdb/internal/usecase"
	"yamdb/pkg/mailer"
	"yamdb/pkg/middleware"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired router and the long-lived pieces the server maintains.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Limiter *middleware.RateLimiter // nil when rate limiting is disabled
}

// Wiring builds services, handlers and routes.
func Wiring(repo *repository.Repository, config *utils.Config, mail mailer.Mailer, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, mail, logger)
	handler := adaptor.NewHandler(service, logger)

	var limiter *middleware.RateLimiter
	if config.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(config.RateLimit, logger)
	}

	return &App{
		Router:  setupRouter(handler, service, limiter, logger),
		Service: service,
		Limiter: limiter,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// must be set before subrouters are mounted so they inherit them
	r.NotFound(adaptor.NotFound)
	r.MethodNotAllowed(adaptor.MethodNotAllowed)

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	r.Get("/health", adaptor.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AuthSession(service.Auth, logger))

		wireAuth(r, handler.Auth, limiter)
		wireUser(r, handler.User, logger)
		wireCatalog(r, handler.Category, handler.Genre, logger)
		wireTitle(r, handler.Title, handler.Review, handler.Comment, logger)
	})

	return r
}

func rateLimited(limiter *middleware.RateLimiter) func(http.Handler) http.Handler {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return limiter.Handler
}
