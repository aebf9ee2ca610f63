package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/outreach/internal/tracking"
)

// SetupRoutes configures the router. trk may be nil when the pixel
// endpoint is served by the dedicated tracking binary instead.
func SetupRoutes(h *Handlers, trk *tracking.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	if trk != nil {
		trk.RegisterRoutes(r)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/emails", func(r chi.Router) {
			r.Post("/validate", h.HandleValidate)
			r.Post("/send", h.HandleSend)
			r.Get("/quota", h.HandleQuota)
		})
		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", h.HandleListCampaigns)
			r.Get("/{id}/opens", h.HandleCampaignOpens)
		})
	})

	return r
}
