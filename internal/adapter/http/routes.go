package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Sessions
		r.Post("/sessions", h.CreateSession)
		r.Get("/sessions/{id}", h.GetSession)
		r.Post("/sessions/{id}/approve", h.ApproveSession)
		r.Get("/sessions/{id}/report", h.GetSessionReport)

		// Profiles and outcome history
		r.Get("/users/{id}/profile", h.GetProfile)
		r.Get("/users/{id}/profile/archetype", h.PreferredArchetype)
		r.Get("/users/{id}/outcomes", h.ListOutcomes)
		r.Post("/users/{id}/outcomes/{outcomeId}/rating", h.RateOutcome)

		// Capability directory
		r.Get("/capabilities", h.ListCapabilities)
		r.Get("/capabilities/health", h.CapabilityHealth)
	})
}
