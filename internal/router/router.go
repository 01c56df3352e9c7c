package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-taskboard/internal/config"
	"go-taskboard/internal/handler"
	"go-taskboard/internal/middleware"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	todoHandler *handler.TodoHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/register", authHandler.Register)
		api.Post("/login", authHandler.Login)
		api.Post("/request-password-reset", authHandler.RequestPasswordReset)
		// The only route a temporary token may reach.
		api.With(authMiddleware.AllowTemporary).Post("/change-password", authHandler.ChangePassword)

		api.With(authMiddleware.RequireAuth).Get("/todos", todoHandler.List)
		api.With(authMiddleware.RequireAuth).Post("/todos", todoHandler.Create)
		api.With(authMiddleware.RequireAuth).Put("/todos/{id}", todoHandler.Update)
		api.With(authMiddleware.RequireAuth).Delete("/todos/{id}", todoHandler.Delete)
	})

	return r
}
