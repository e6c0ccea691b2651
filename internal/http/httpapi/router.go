package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"promail/internal/http/handlers"
	"promail/internal/infra"
	"promail/internal/middleware"
)

// NewRouter assembles the HTTP surface: open endpoints for health, visits,
// packs, and sign-in; everything else behind the JWT.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
		middleware.DraftLanguage,
	)

	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/visits", app.VisitCreate)
	r.Get("/v1/packs", app.PacksList)
	r.Post("/v1/auth/signin", app.SignIn)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))

		r.Post("/v1/auth/signout", app.SignOut)
		r.Get("/v1/me", app.Me)
		r.Post("/v1/generate", app.Generate)
		r.Post("/v1/purchase", app.Purchase)
		r.Get("/v1/admin/stats", app.AdminStats)
		r.Get("/v1/admin/export", app.AdminExport)
	})

	return r
}
