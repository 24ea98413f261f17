package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/hearthcloud/internal/api/httpx"
	"github.com/baharkarakas/hearthcloud/internal/session"
)

type sessionKey struct{}

func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// Session returns the request's session, or nil.
func Session(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey{}).(*session.Session)
	return s
}

// UserID returns the authenticated user's id.
func UserID(ctx context.Context) (int64, bool) {
	s := Session(ctx)
	if !s.Authenticated() {
		return 0, false
	}
	return s.UserID, true
}

type AuthMiddleware struct {
	Sessions *session.Manager
}

func NewAuthMiddleware(m *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{Sessions: m}
}

// AnnotateCurrentUser attaches the session, if any, and never rejects.
// A failing store is logged and treated as no session.
func (m *AuthMiddleware) AnnotateCurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Sessions.Load(r.Context(), r)
		if err != nil {
			slog.ErrorContext(r.Context(), "session load", "err", err)
		}
		if s != nil {
			r = r.WithContext(WithSession(r.Context(), s))
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Session(r.Context()).Authenticated() {
			httpx.WriteError(w, http.StatusUnauthorized, "authentication_required", "you must be logged in", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAnonymous(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Session(r.Context()).Authenticated() {
			httpx.WriteError(w, http.StatusForbidden, "already_authenticated", "you are already logged in", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
