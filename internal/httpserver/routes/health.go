package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JRomainG/TGVMaxBot/internal/httpserver/deps"
	"github.com/JRomainG/TGVMaxBot/internal/httpserver/handlers"
	"github.com/JRomainG/TGVMaxBot/internal/httpserver/mw"
)

func init() { Register("health", registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	restricted := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	restricted.Get("/readyz", handlers.Readyz(d))
	restricted.Handle("/metrics", promhttp.Handler())
}
