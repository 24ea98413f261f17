package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/baharkarakas/hearthcloud/internal/auth"
)

const DefaultCookieName = "hearth_sid"

// Manager binds sessions to the request cookie. Handlers are its only callers.
type Manager struct {
	store  Store
	signer *auth.CookieSigner
	cookie string
	secure bool
	now    func() time.Time
}

func NewManager(store Store, signer *auth.CookieSigner, cookieName string, secure bool) *Manager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Manager{store: store, signer: signer, cookie: cookieName, secure: secure, now: time.Now}
}

// Load returns the request's session, or nil when there is none. Bad or
// stale cookies count as none.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.cookie)
	if err != nil || c.Value == "" {
		return nil, nil
	}
	id, err := m.signer.Parse(c.Value)
	if err != nil {
		return nil, nil
	}
	s, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return s, err
}

// Create starts an authenticated session lasting d, replacing prev when
// given. The cookie is written once.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, prev *Session, userID int64, username string, d time.Duration) (*Session, error) {
	if prev != nil {
		if err := m.store.Delete(ctx, prev.ID); err != nil {
			return nil, err
		}
	}
	s := New(m.now())
	s.UserID = userID
	s.Username = username
	if err := m.store.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, m.Extend(ctx, w, s, d)
}

// Extend pushes expiry to now+d and marks the session as remembered.
func (m *Manager) Extend(ctx context.Context, w http.ResponseWriter, s *Session, d time.Duration) error {
	m.expireIn(s, d)
	if err := m.store.Update(ctx, s); err != nil {
		return err
	}
	return m.writeCookie(w, s)
}

func (m *Manager) expireIn(s *Session, d time.Duration) {
	if d <= 0 {
		d = DefaultLifetime
	}
	s.ExpiresAt = m.now().Add(d)
	s.RememberMe = d > DefaultLifetime
}

// SaveRecovery stores recovery state on s, creating an anonymous session
// when s is nil.
func (m *Manager) SaveRecovery(ctx context.Context, w http.ResponseWriter, s *Session, rec Recovery) (*Session, error) {
	if s == nil {
		s = New(m.now())
		s.Recovery = rec
		if err := m.store.Create(ctx, s); err != nil {
			return nil, err
		}
		return s, m.writeCookie(w, s)
	}
	s.Recovery = rec
	return s, m.store.Update(ctx, s)
}

// Destroy deletes s (if any) and clears the cookie either way.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	m.clearCookie(w)
	if s == nil {
		return nil
	}
	return m.store.Delete(ctx, s.ID)
}

// DestroyUser removes every session of userID and clears the cookie.
func (m *Manager) DestroyUser(ctx context.Context, w http.ResponseWriter, userID int64) error {
	m.clearCookie(w)
	return m.store.DeleteByUserID(ctx, userID)
}

func (m *Manager) writeCookie(w http.ResponseWriter, s *Session) error {
	value, err := m.signer.Sign(s.ID, s.ExpiresAt)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    value,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(s.ExpiresAt.Sub(m.now()).Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
