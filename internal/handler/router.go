package handler

import (
	"net/http"

	"fraddriso20022/internal/address"
	"fraddriso20022/internal/logger"
	"fraddriso20022/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	JWTSecret  string
	CORSOrigin string

	// Limiter is optional; nil disables rate limiting.
	Limiter *middleware.RateLimiter

	// Metrics serves /metrics; nil uses the default prometheus registry.
	Metrics http.Handler
}

// NewRouter creates a chi router with all address routes registered.
func NewRouter(svc address.Service, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.CORS(cfg.CORSOrigin))

	metricsHandler := cfg.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	h := NewAddressHandler(svc)
	requireToken := middleware.RequireToken(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware)
		}

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)
			r.Get("/{id}/convert", h.ConvertStored)

			r.Group(func(r chi.Router) {
				r.Use(requireToken)
				r.Post("/", h.Create)
				r.Post("/iso", h.CreateISO)
				r.Put("/{id}", h.Update)
				r.Delete("/{id}", h.Delete)
			})
		})

		r.Post("/convert/iso", h.ConvertToISO)
		r.Post("/convert/french", h.ConvertToFrench)
		r.Post("/validate/french", h.ValidateFrench)
		r.Post("/validate/iso", h.ValidateISO)
	})

	return r
}
