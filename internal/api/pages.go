package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PageHandler serves the informational pages.
type PageHandler struct {
	*Handler
}

// NewPageHandler creates a new page handler.
func NewPageHandler(base *Handler) *PageHandler {
	return &PageHandler{Handler: base}
}

// RegisterRoutes registers the public page routes.
func (h *PageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/flower-intro", h.FlowerIntro)
}

// Index renders the landing page.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	name := h.cfg.RecipientName
	h.render(w, http.StatusOK, "index.html", map[string]any{
		"nombre": name,
		"titulo": "Para " + name,
	})
}

// FlowerIntro renders the flower page shown before the question.
func (h *PageHandler) FlowerIntro(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "flower_intro.html", map[string]any{
		"nombre": h.cfg.RecipientName,
	})
}
