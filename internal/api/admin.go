package api

import (
	"log/slog"
	"net/http"

	"github.com/ashureev/propuesta/internal/session"
	"github.com/go-chi/chi/v5"
)

// ListingPath is where a successful login lands.
const ListingPath = "/admin/respuestas"

const wrongPasswordMessage = "Contraseña incorrecta."

// AdminSessions is the session behaviour the admin pages depend on.
type AdminSessions interface {
	session.AuthGuard
	CheckPassword(candidate string) bool
	SetAdmin(w http.ResponseWriter, r *http.Request) error
	ClearAdmin(w http.ResponseWriter, r *http.Request) error
}

// AdminHandler handles login, logout and the response listing.
type AdminHandler struct {
	*Handler
	sessions AdminSessions
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(base *Handler, sessions AdminSessions) *AdminHandler {
	return &AdminHandler{Handler: base, sessions: sessions}
}

// RegisterRoutes registers the admin routes.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get(session.LoginPath, h.LoginForm)
	r.Post(session.LoginPath, h.Login)
	r.Post("/admin/logout", h.Logout)
	r.With(h.sessions.RequireAdmin).Get(ListingPath, h.List)
}

// LoginForm renders the empty login form.
func (h *AdminHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "admin_login.html", map[string]any{})
}

// Login checks the submitted password. A wrong password re-renders the form
// and leaves the session untouched.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.CheckPassword(r.PostFormValue("password")) {
		slog.Warn("Admin login failed", "ip", session.IPFromRequest(r))
		h.render(w, http.StatusOK, "admin_login.html", map[string]any{
			"error": wrongPasswordMessage,
		})
		return
	}

	if err := h.sessions.SetAdmin(w, r); err != nil {
		slog.Error("Failed to save admin session", "error", err)
		Error(w, http.StatusInternalServerError)
		return
	}

	slog.Info("Admin logged in", "ip", session.IPFromRequest(r))
	http.Redirect(w, r, ListingPath, http.StatusFound)
}

// Logout clears the session and returns to the login page.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearAdmin(w, r); err != nil {
		slog.Error("Failed to clear admin session", "error", err)
		Error(w, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, session.LoginPath, http.StatusFound)
}

// List renders every recorded response, newest first.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.repo.ListResponses(r.Context())
	if err != nil {
		h.storageFailure(w, "Failed to list responses", err)
		return
	}

	h.render(w, http.StatusOK, "admin.html", map[string]any{
		"rows": rows,
	})
}
