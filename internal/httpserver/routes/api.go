package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/JRomainG/TGVMaxBot/internal/httpserver/deps"
	"github.com/JRomainG/TGVMaxBot/internal/httpserver/handlers"
	"github.com/JRomainG/TGVMaxBot/internal/httpserver/mw"
)

func init() { Register("api", registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))

		api.Get("/stations", handlers.Stations(d))
		api.Get("/chats/{chatID}/whoami", handlers.Whoami(d))
		api.Post("/cache/flush", handlers.FlushCache(d))

		api.Route("/users/{userID}/trips", func(trips chi.Router) {
			trips.Get("/", handlers.ListTrips(d))
			trips.With(mw.RateLimit(mw.RateLimitConfig{
				Burst:             d.RateLimitBurst,
				RefillPerIPPerMin: d.RateLimitPerMin,
				TrustProxy:        d.TrustProxy,
				Now:               d.TimeNow,
			})).Post("/", handlers.CreateTrip(d))
			trips.Delete("/{index}", handlers.DeleteTrip(d))
		})
	})
}
