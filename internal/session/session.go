// Package session provides the signed admin session and the guard for
// admin-only routes.
package session

import (
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	CookieName = "propuesta_session"
	// LoginPath is where unauthenticated admin requests are sent.
	LoginPath = "/admin"

	// DefaultLifetime bounds how long a signed cookie is accepted, including
	// copies replayed after logout.
	DefaultLifetime = 12 * time.Hour

	adminKey = "is_admin"
)

// AuthGuard gates handlers that require an admin session.
type AuthGuard interface {
	// RequireAdmin invokes next only for admin sessions and redirects
	// everyone else to the login page.
	RequireAdmin(next http.Handler) http.Handler
}

// Manager owns the is_admin flag stored in a tamper-evident cookie.
type Manager struct {
	store    *sessions.CookieStore
	password [sha256.Size]byte
}

var _ AuthGuard = (*Manager)(nil)

// NewManager creates a Manager signing cookies with secret and accepting
// adminPassword at login.
func NewManager(secret, adminPassword string, isDev bool) *Manager {
	return NewManagerWithLifetime(secret, adminPassword, isDev, DefaultLifetime)
}

// NewManagerWithLifetime is NewManager with an explicit limit on how old a
// signed cookie may be before it is rejected.
func NewManagerWithLifetime(secret, adminPassword string, isDev bool, lifetime time.Duration) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	// Only the signature timestamp is bounded; the cookie itself stays a
	// browser-session cookie.
	for _, codec := range store.Codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(int(lifetime.Seconds()))
		}
	}
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0, // browser-session cookie
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	}

	return &Manager{
		store:    store,
		password: sha256.Sum256([]byte(adminPassword)),
	}
}

// CheckPassword compares candidate with the configured password. Both sides
// are hashed first so the comparison time does not depend on their lengths.
func (m *Manager) CheckPassword(candidate string) bool {
	sum := sha256.Sum256([]byte(candidate))
	return subtle.ConstantTimeCompare(sum[:], m.password[:]) == 1
}

// IsAdmin reports whether the request carries a valid admin session.
// Missing, expired or tampered cookies count as anonymous.
func (m *Manager) IsAdmin(r *http.Request) bool {
	sess, err := m.store.Get(r, CookieName)
	if err != nil {
		return false
	}
	v, ok := sess.Values[adminKey].(bool)
	return ok && v
}

// SetAdmin starts a fresh authenticated session. Values carried over from
// before login are dropped.
func (m *Manager) SetAdmin(w http.ResponseWriter, r *http.Request) error {
	// A decode error still yields a fresh session, which is what we want to overwrite.
	sess, _ := m.store.Get(r, CookieName)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Values[adminKey] = true
	return sess.Save(r, w)
}

// ClearAdmin wipes the session and expires its cookie.
func (m *Manager) ClearAdmin(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, CookieName)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// RequireAdmin redirects anonymous sessions to LoginPath.
func (m *Manager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.IsAdmin(r) {
			slog.Debug("admin route requested without session", "path", r.URL.Path)
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IPFromRequest returns the client address without its port, or "" when the
// server could not observe one.
func IPFromRequest(r *http.Request) string {
	if r.RemoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
