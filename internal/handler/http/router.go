package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Zinedinarnaut/torqueindex/pkg/health"
	"github.com/Zinedinarnaut/torqueindex/pkg/middleware"
)

// NewRouter assembles the HTTP routes and the shared middleware chain.
func NewRouter(handler *ModHandler, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.PrometheusMetrics("torqueindex"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/mods", handler.SearchMods)
		r.Get("/mods/{id}", handler.GetMod)
		r.Post("/scrape", handler.TriggerScrape)
		r.Get("/stores", handler.ListStores)
	})

	return r
}
