package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tribeserver/internal/http/handlers"
	"tribeserver/internal/infra"
	"tribeserver/internal/infra/geoip"
	"tribeserver/internal/middleware"
)

// NewRouter assembles the API surface. POST-only endpoints answer other
// verbs with the METHOD_NOT_ALLOWED envelope; OPTIONS is short-circuited by
// the CORS middleware before routing.
func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger, countries geoip.CountryResolver) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP, middleware.RequestID, middleware.CORS(), middleware.Logger(logger, countries), middleware.Recover(logger))
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}
	r.MethodNotAllowed(app.MethodNotAllowed)

	r.Get("/v1/healthz", app.Health)
	r.Method(stdhttp.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/moodboards/upload", app.MoodboardUpload)
		r.Delete("/moodboards", app.MoodboardDelete)
		r.Post("/images/generate", app.GenerateImage)
	})

	// The filesystem driver serves its objects directly; a real deployment
	// points STORAGE_PUBLIC_URL at the storage service instead.
	if cfg.StorageDriver == infra.StorageDriverFilesystem {
		fs := stdhttp.StripPrefix("/static/", stdhttp.FileServer(stdhttp.Dir(cfg.StoragePath)))
		r.Method(stdhttp.MethodGet, "/static/*", fs)
	}

	return r
}
