package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every handler and the global middleware into one router.
func NewRouter(base *Handler, sessions AdminSessions, static http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	// Forwarding headers are client-controlled unless a proxy rewrites them.
	if base.cfg.TrustProxyHeaders {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	NewHealthHandler(base.repo).RegisterHealth(r)
	NewPageHandler(base).RegisterRoutes(r)
	NewResponseHandler(base).RegisterRoutes(r)
	NewAdminHandler(base, sessions).RegisterRoutes(r)

	if static != nil {
		r.Handle("/static/*", static)
	}

	return r
}
