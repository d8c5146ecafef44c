package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/halvard/bifrost/internal/sse"
	"github.com/halvard/bifrost/internal/vaultops"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, is mounted at GET /events inside the auth group
// and receives operation outcome events.
func NewRouter(svc *vaultops.Service, authEnabled bool, token string, broker *sse.Broker) chi.Router {
	h := NewHandler(svc, broker)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Compatibility scan and fix application.
	r.Get("/scan", h.Scan)
	r.Post("/fix", h.Fix)

	// Bookmark reconciliation.
	r.Post("/sync", h.Sync)
	r.Post("/sync/resolve", h.Resolve)
	r.Post("/sync/create", h.CreateMissing)

	// Serve-mode status.
	r.Get("/status", h.Status)

	// SSE endpoint (protected by same auth middleware).
	if broker != nil {
		r.Get("/events", broker.ServeHTTP)
	}

	return r
}
