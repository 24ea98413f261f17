package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/hearthcloud/internal/auth"
)

func newTestManager() (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	return NewManager(store, auth.NewCookieSigner("test-secret", "hearthcloud"), "", false), store
}

// requestWith copies the cookies set on rec into a fresh request.
func requestWith(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s := New(now)
	s.UserID = 7
	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)

	got.Username = "tester123"
	require.NoError(t, store.Update(ctx, got))
	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "tester123", got.Username)

	assert.ErrorIs(t, store.Update(ctx, New(now)), ErrNotFound)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ExpiryAndPurge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	short := New(now)
	long := New(now)
	long.ExpiresAt = now.Add(RememberLifetime)
	require.NoError(t, store.Create(ctx, short))
	require.NoError(t, store.Create(ctx, long))

	now = now.Add(DefaultLifetime)
	_, err := store.Get(ctx, short.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	short2 := New(now.Add(-DefaultLifetime))
	require.NoError(t, store.Create(ctx, short2))
	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.Get(ctx, long.ID)
	assert.NoError(t, err)
}

func TestMemoryStore_DeleteByUserID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	a1, a2, b := New(now), New(now), New(now)
	a1.UserID, a2.UserID, b.UserID = 1, 1, 2
	for _, s := range []*Session{a1, a2, b} {
		require.NoError(t, store.Create(ctx, s))
	}

	require.NoError(t, store.DeleteByUserID(ctx, 1))
	_, err := store.Get(ctx, a1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, a2.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, b.ID)
	assert.NoError(t, err)
}

func TestManager_CreateAndLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestManager()

	rec := httptest.NewRecorder()
	s, err := m.Create(ctx, rec, nil, 42, "tester123", DefaultLifetime)
	require.NoError(t, err)
	assert.True(t, s.Authenticated())
	assert.WithinDuration(t, time.Now().Add(DefaultLifetime), s.ExpiresAt, time.Minute)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEqual(t, s.ID, cookies[0].Value)

	loaded, err := m.Load(ctx, requestWith(rec))
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, "tester123", loaded.Username)
}

func TestManager_LoadIgnoresBadCookies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestManager()

	s, err := m.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Nil(t, s)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "forged"})
	s, err = m.Load(ctx, r)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestManager_Extend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, store := newTestManager()

	rec := httptest.NewRecorder()
	s, err := m.Create(ctx, rec, nil, 1, "tester123", DefaultLifetime)
	require.NoError(t, err)

	require.NoError(t, m.Extend(ctx, httptest.NewRecorder(), s, RememberLifetime))
	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.RememberMe)
	assert.WithinDuration(t, time.Now().Add(RememberLifetime), got.ExpiresAt, time.Minute)
}

func TestManager_CreateRemembered(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, store := newTestManager()

	rec := httptest.NewRecorder()
	s, err := m.Create(ctx, rec, nil, 1, "tester123", RememberLifetime)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.InDelta(t, RememberLifetime.Seconds(), float64(cookies[0].MaxAge), 60)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.RememberMe)
	assert.WithinDuration(t, time.Now().Add(RememberLifetime), got.ExpiresAt, time.Minute)
}

func TestManager_CreateReplacesPrevious(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, store := newTestManager()

	anon, err := m.SaveRecovery(ctx, httptest.NewRecorder(), nil, Recovery{UserID: 5, Allowed: true})
	require.NoError(t, err)
	assert.False(t, anon.Authenticated())

	_, err = m.Create(ctx, httptest.NewRecorder(), anon, 5, "tester123", DefaultLifetime)
	require.NoError(t, err)
	_, err = store.Get(ctx, anon.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_SaveRecovery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, store := newTestManager()

	rec := httptest.NewRecorder()
	s, err := m.SaveRecovery(ctx, rec, nil, Recovery{UserID: 9})
	require.NoError(t, err)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.False(t, s.Recovery.Permits())

	_, err = m.SaveRecovery(ctx, httptest.NewRecorder(), s, Recovery{UserID: 9, Allowed: true})
	require.NoError(t, err)
	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.Recovery.Permits())
}

func TestManager_Destroy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, store := newTestManager()

	s, err := m.Create(ctx, httptest.NewRecorder(), nil, 3, "tester123", DefaultLifetime)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, rec, s))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	rec = httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, rec, nil))
	assert.Len(t, rec.Result().Cookies(), 1)
}
