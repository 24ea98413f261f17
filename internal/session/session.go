package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLifetime  = 24 * time.Hour
	RememberLifetime = 30 * 24 * time.Hour
)

var ErrNotFound = errors.New("session: not found")

// Recovery tracks an in-progress password reset. Allowed is only set after
// the security answer was verified for UserID.
type Recovery struct {
	UserID  int64 `json:"userId,omitempty"`
	Allowed bool  `json:"allowed,omitempty"`
}

func (r Recovery) Permits() bool { return r.Allowed && r.UserID > 0 }

type Session struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"userId,omitempty"` // 0 = anonymous
	Username   string    `json:"username,omitempty"`
	Recovery   Recovery  `json:"recovery"`
	RememberMe bool      `json:"rememberMe,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// New returns an anonymous session with a random v4 id.
func New(now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(DefaultLifetime),
	}
}

func (s *Session) Authenticated() bool { return s != nil && s.UserID > 0 }

func (s *Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

type Store interface {
	Create(ctx context.Context, s *Session) error
	// Get returns ErrNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID int64) error
	PurgeExpired(ctx context.Context) (int, error)
}
