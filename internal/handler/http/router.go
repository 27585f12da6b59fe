package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/addressbook/pkg/health"
	"github.com/utafrali/addressbook/pkg/middleware"
)

// NewRouter builds the service's HTTP routing table.
func NewRouter(
	addresses *AddressHandler,
	validateToken middleware.TokenValidator,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("addressbook"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(validateToken))

		r.Route("/users/{uid}/addresses", func(r chi.Router) {
			r.Get("/", addresses.List)
			r.Post("/", addresses.Create)

			r.Route("/{aid}", func(r chi.Router) {
				r.Get("/", addresses.Get)
				r.Put("/", addresses.Update)
				r.Delete("/", addresses.Delete)
				r.Get("/rendered", addresses.Render)
				r.Put("/default/{kind}", addresses.SetDefault)
			})
		})
	})

	return r
}
