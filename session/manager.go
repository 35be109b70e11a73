package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocks-simulator/auth"
)

// Manager binds a Store to the session cookie. The cookie holds a signed
// token whose only claim of interest is the session id.
type Manager struct {
	store  Store
	tokens *auth.TokenManager
	cookie string
	maxAge int
	secure bool
}

type ManagerOptions struct {
	CookieName string
	MaxAge     int // seconds
	Secure     bool
}

func NewManager(store Store, tokens *auth.TokenManager, opts ManagerOptions) *Manager {
	name := opts.CookieName
	if name == "" {
		name = "session"
	}
	return &Manager{store: store, tokens: tokens, cookie: name, maxAge: opts.MaxAge, secure: opts.Secure}
}

// Begin creates a session for userID and sets the cookie.
func (m *Manager) Begin(c *gin.Context, userID uint) error {
	id, err := m.store.Create(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	token, err := m.tokens.Issue(id)
	if err != nil {
		_ = m.store.Delete(c.Request.Context(), id)
		return err
	}
	m.setCookie(c, token, m.maxAge)
	return nil
}

// Resolve returns the user bound to the request's session. It returns
// ErrNotFound when there is no usable session.
func (m *Manager) Resolve(c *gin.Context) (uint, error) {
	id, err := m.sessionID(c)
	if err != nil {
		return 0, err
	}
	return m.store.Get(c.Request.Context(), id)
}

// End destroys the current session, if any, and expires the cookie.
func (m *Manager) End(c *gin.Context) error {
	m.setCookie(c, "", -1)
	id, err := m.sessionID(c)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return m.store.Delete(context.WithoutCancel(c.Request.Context()), id)
}

func (m *Manager) sessionID(c *gin.Context) (string, error) {
	raw, err := c.Cookie(m.cookie)
	if err != nil || raw == "" {
		return "", ErrNotFound
	}
	id, err := m.tokens.Parse(raw)
	if err != nil {
		return "", ErrNotFound
	}
	return id, nil
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie, value, maxAge, "/", "", m.secure, true)
}
