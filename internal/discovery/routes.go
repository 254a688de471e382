package discovery

import (
	"github.com/go-chi/chi/v5"

	"github.com/imadgeboyega/kiekky-discovery/internal/auth"
)

// RegisterRoutes registers the discovery feed routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware *auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/api/v1/discover/feed", handler.GetFeed)
		r.Delete("/api/v1/discover/feed/cache", handler.InvalidateFeed)
	})
}
