package api

import (
	"log/slog"
	"net/http"

	"github.com/ashureev/propuesta/internal/domain"
	"github.com/ashureev/propuesta/internal/session"
	"github.com/go-chi/chi/v5"
)

// ResponseHandler records the visitor's answer.
type ResponseHandler struct {
	*Handler
}

// NewResponseHandler creates a new response handler.
func NewResponseHandler(base *Handler) *ResponseHandler {
	return &ResponseHandler{Handler: base}
}

// RegisterRoutes registers the submission route.
func (h *ResponseHandler) RegisterRoutes(r chi.Router) {
	r.Post("/respuesta", h.Submit)
}

// Submit validates the submitted choice, stores it and renders the
// confirmation page. Invalid choices get a 400 and nothing is written.
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	choice, err := domain.NormalizeChoice(r.PostFormValue("choice"))
	if err != nil {
		slog.Warn("Rejected response", "error", err)
		Error(w, http.StatusBadRequest)
		return
	}

	resp := domain.NewResponse(choice, h.now(), session.IPFromRequest(r), r.UserAgent())
	id, err := h.repo.InsertResponse(r.Context(), resp)
	if err != nil {
		h.storageFailure(w, "Failed to record response", err)
		return
	}

	slog.Info("Response recorded", "id", id, "choice", choice, "ip", resp.IP)
	h.render(w, http.StatusOK, "gracias.html", map[string]any{
		"choice": choice,
		"nombre": h.cfg.RecipientName,
	})
}
