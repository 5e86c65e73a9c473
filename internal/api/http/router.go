package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/quidalert-auth/internal/logger"
)

// RouterConfig holds transport limits.
type RouterConfig struct {
	MaxBodyBytes int64
}

// NewRouter wires the public API, probes and metrics.
func NewRouter(cfg RouterConfig, h *Handler, health *Health, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestContext)
	r.Use(Recovery(log))
	r.Use(Metrics)

	r.Get("/healthz", health.Live)
	r.Get("/readyz", health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(LimitBody(cfg.MaxBodyBytes))

		r.Post("/register", h.Register)
		r.Get("/activate", h.Activate)
		r.Post("/login", h.Login)
		r.Post("/token/refresh", h.Refresh)
		r.Post("/token/revoke", h.Revoke)
		r.Post("/password/reset", h.RequestReset)
		r.Post("/password/reset/confirm", h.ConfirmReset)
		r.Get("/terms", h.Terms)

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate)

			r.Get("/me", h.Me)
			r.Post("/sessions/revoke-all", h.RevokeAll)
			r.Get("/users/{id}", h.GetUser)
		})
	})

	return r
}
