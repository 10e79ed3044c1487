package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, sh *StylistHandler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Garments CRUD and wear tracking.
	r.Get("/garments", h.ListGarments)
	r.Post("/garments", h.AddGarment)
	r.Put("/garments/{id}", h.UpdateGarment)
	r.Delete("/garments/{id}", h.DeleteGarment)
	r.Post("/garments/{id}/worn", h.ToggleWorn)

	// Derived views.
	r.Get("/views/categories", h.Categories)
	r.Get("/views/new-arrivals", h.NewArrivals)
	r.Get("/views/filters", h.AvailableFilters)
	r.Get("/views/category", h.CategoryView)
	r.Get("/views/catalogue", h.Catalogue)

	// Backup and restore.
	r.Get("/export", h.Export)
	r.Post("/import", h.Import)
	r.Get("/backups", h.ListBackups)

	// AI stylist.
	r.Post("/stylist/analyze", sh.Analyze)
	r.Get("/stylist/insights", sh.Insights)
	r.Post("/stylist/outfit", sh.Outfit)
	r.Get("/stylist/shopping", sh.Shopping)
	r.Post("/stylist/visualize", sh.Visualize)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
