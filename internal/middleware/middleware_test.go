package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/hearthcloud/internal/api/httpx"
	"github.com/baharkarakas/hearthcloud/internal/auth"
	"github.com/baharkarakas/hearthcloud/internal/session"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) httpx.APIError {
	t.Helper()
	var body httpx.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRequireAuthenticated(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RequireAuthenticated(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeErr(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "authentication_required", body.Code)

	anon := session.New(time.Now())
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithSession(r.Context(), anon))
	rec = httptest.NewRecorder()
	RequireAuthenticated(ok).ServeHTTP(rec, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	authed := session.New(time.Now())
	authed.UserID = 1
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithSession(r.Context(), authed))
	rec = httptest.NewRecorder()
	RequireAuthenticated(ok).ServeHTTP(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAnonymous(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RequireAnonymous(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	authed := session.New(time.Now())
	authed.UserID = 1
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r = r.WithContext(WithSession(r.Context(), authed))
	rec = httptest.NewRecorder()
	RequireAnonymous(ok).ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "already_authenticated", decodeErr(t, rec).Code)
}

func TestAnnotateCurrentUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := session.NewManager(session.NewMemoryStore(), auth.NewCookieSigner("s", "i"), "", false)
	m := NewAuthMiddleware(mgr)

	login := httptest.NewRecorder()
	_, err := mgr.Create(ctx, login, nil, 42, "tester123", session.DefaultLifetime)
	require.NoError(t, err)

	var seen int64
	h := m.AnnotateCurrentUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range login.Result().Cookies() {
		r.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, int64(42), seen)

	seen = -1
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, int64(0), seen)
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, got, 36)
	assert.Equal(t, got, rec.Header().Get(RequestIDHeader))

	attr, ok := RequestIDAttr(context.WithValue(context.Background(), requestIDKey, got))
	assert.True(t, ok)
	assert.Equal(t, got, attr.Value.String())

	incoming := "0b0c6a7e-6f0e-4a53-9d55-3b7f0d1c2e11"
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, incoming)
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, incoming, got)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "<script>")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.NotEqual(t, "<script>", got)
}

func TestRecover(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeErr(t, rec)
	assert.Equal(t, "internal_error", body.Code)
	assert.NotContains(t, body.Message, "boom")
}

func TestTokenBucket(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tb := newTokenBucket(2)
	tb.last = now
	tb.now = func() time.Time { return now }

	ok1, _ := tb.take()
	ok2, _ := tb.take()
	ok3, wait := tb.take()
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.False(t, ok3)
	assert.Equal(t, 500*time.Millisecond, wait)

	now = now.Add(500 * time.Millisecond)
	ok4, _ := tb.take()
	assert.True(t, ok4)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	h := RateLimit(1)(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec = httptest.NewRecorder()
	RateLimit(0)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
