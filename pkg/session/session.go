// Package session binds a browser to a signed-in user and carries one-shot
// notices between requests.
//
// Usage (middleware):
//
//	r.Use(manager.Middleware())
//
// Usage (handler):
//
//	p := session.PrincipalFrom(r.Context())
//	if err := manager.Login(w, user.ID); err != nil { ... }
//	manager.Flash(w, r, "User created! Please sign in.")
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/cafehub/pkg/auth"
	"github.com/shashiranjanraj/cafehub/pkg/cache"
	"github.com/shashiranjanraj/cafehub/pkg/crypt"
	"github.com/shashiranjanraj/cafehub/pkg/logger"
)

// ------------------- Options -------------------

// Options configures session behaviour.
type Options struct {
	CookieName      string
	FlashCookieName string
	TTL             time.Duration
	Secure          bool
	SameSite        http.SameSite
	Path            string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		CookieName:      "cafehub_session",
		FlashCookieName: "cafehub_flash",
		TTL:             12 * time.Hour,
		Secure:          false, // set true in production
		SameSite:        http.SameSiteLaxMode,
		Path:            "/",
	}
}

// UserLoader answers whether a user id still refers to a stored account.
type UserLoader interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// ------------------- Manager -------------------

// Manager issues, resolves and revokes session cookies.
type Manager struct {
	opts    Options
	signer  *auth.TokenSigner
	flashes *crypt.Cipher
	users   UserLoader
	revoked cache.Store
}

func NewManager(opts Options, signer *auth.TokenSigner, flashes *crypt.Cipher, users UserLoader, revoked cache.Store) *Manager {
	return &Manager{
		opts:    opts,
		signer:  signer,
		flashes: flashes,
		users:   users,
		revoked: revoked,
	}
}

func revokedKey(jti string) string { return "session:revoked:" + jti }

// Login binds the response's browser to userID.
func (m *Manager) Login(w http.ResponseWriter, userID uint) error {
	token, claims, err := m.signer.Issue(userID, m.opts.TTL)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    token,
		Path:     m.opts.Path,
		Expires:  claims.ExpiresAt.Time,
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	})
	return nil
}

// Logout clears the session cookie and revokes the token it carried so a
// copied cookie cannot be replayed. The cookie is cleared even when the
// revocation cannot be recorded.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	m.clear(w, m.opts.CookieName)

	c, err := r.Cookie(m.opts.CookieName)
	if err != nil {
		return nil
	}
	claims, err := m.signer.Parse(c.Value)
	if err != nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return m.revoked.Set(r.Context(), revokedKey(claims.ID), true, ttl)
}

// Resolve returns the principal for r. Any failure, including a storage
// error or a token naming a user that no longer exists, yields Anonymous.
func (m *Manager) Resolve(r *http.Request) Principal {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || c.Value == "" {
		return Anonymous
	}

	claims, err := m.signer.Parse(c.Value)
	if err != nil {
		return Anonymous
	}

	ctx := r.Context()
	log := logger.WithCtx(ctx)

	revoked, err := m.revoked.Exists(ctx, revokedKey(claims.ID))
	if err != nil {
		log.Warn("session: revocation lookup failed", "error", err)
		return Anonymous
	}
	if revoked {
		return Anonymous
	}

	exists, err := m.users.Exists(ctx, claims.UserID)
	if err != nil {
		log.Warn("session: user lookup failed", "user_id", claims.UserID, "error", err)
		return Anonymous
	}
	if !exists {
		return Anonymous
	}
	return Authenticated(claims.UserID)
}

// Middleware resolves the principal once per request and stores it in the
// request context for PrincipalFrom.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := m.Resolve(r)
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// ------------------- Flash -------------------

// maxFlashes bounds the pending notices so the flash cookie stays well under
// the browser's per-cookie limit.
const maxFlashes = 5

// Flash queues msg for the next request. Notices already pending on r are
// kept, up to the newest maxFlashes.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, msg string) {
	pending := append(m.read(r), msg)
	if len(pending) > maxFlashes {
		pending = pending[len(pending)-maxFlashes:]
	}

	enc, err := m.flashes.EncryptJSON(pending)
	if err != nil {
		logger.WithCtx(r.Context()).Error("session: encrypt flash", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.FlashCookieName,
		Value:    enc,
		Path:     m.opts.Path,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	})
}

// Flashes returns the pending notices and clears them.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	pending := m.read(r)
	if _, err := r.Cookie(m.opts.FlashCookieName); err == nil {
		m.clear(w, m.opts.FlashCookieName)
	}
	return pending
}

func (m *Manager) read(r *http.Request) []string {
	c, err := r.Cookie(m.opts.FlashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	var msgs []string
	if err := m.flashes.DecryptJSON(c.Value, &msgs); err != nil {
		return nil
	}
	return msgs
}

func (m *Manager) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.opts.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	})
}
