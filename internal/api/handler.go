// Package api provides the HTTP handlers for the proposal site.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/propuesta/internal/config"
	"github.com/ashureev/propuesta/internal/store"
)

// Renderer turns a template name and its named values into page output.
type Renderer interface {
	Render(w io.Writer, name string, data map[string]any) error
}

// Handler provides common handler utilities.
type Handler struct {
	repo     store.Repository
	renderer Renderer
	cfg      *config.Config
	now      func() time.Time
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, renderer Renderer, cfg *config.Config) *Handler {
	return &Handler{
		repo:     repo,
		renderer: renderer,
		cfg:      cfg,
		now:      time.Now,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a plain-text error response using the standard status text.
func Error(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

// render executes the page into a buffer first so a template failure becomes
// a clean 500 instead of a half-written page.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data map[string]any) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, data); err != nil {
		slog.Error("Failed to render template", "template", name, "error", err)
		Error(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("Failed to write response body", "template", name, "error", err)
	}
}

// storageFailure logs a datastore error and answers 500. There is no retry.
func (h *Handler) storageFailure(w http.ResponseWriter, msg string, err error) {
	attrs := []any{"error", err}
	var storageErr *store.StorageError
	if errors.As(err, &storageErr) && storageErr.Contended() {
		attrs = append(attrs, "contended", true)
	}
	slog.Error(msg, attrs...)
	Error(w, http.StatusInternalServerError)
}
