package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/mcpsetup/internal/setupservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *setupservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Credentials.
	r.Get("/credentials", h.GetCredentials)
	r.Put("/credentials", h.SaveCredentials)
	r.Post("/credentials/validate", h.ValidateToken)

	// Status and host targets.
	r.Get("/status", h.Status)
	r.Get("/targets", h.ListTargets)
	r.Post("/targets/{kind}/install", h.Install)
	r.Delete("/targets/{kind}/install", h.Uninstall)
	r.Get("/targets/{kind}/snippet", h.Snippet)
	r.Post("/install", h.InstallAll)

	// Tool catalog.
	r.Get("/tools", h.ToolCategories)
	r.Get("/tools/search", h.SearchTools)

	r.Get("/history", h.History)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
