package services

import (
	"context"
	"log/slog"

	"github.com/baharkarakas/hearthcloud/internal/api/validate"
	"github.com/baharkarakas/hearthcloud/internal/apperr"
	"github.com/baharkarakas/hearthcloud/internal/auth"
	"github.com/baharkarakas/hearthcloud/internal/events"
	"github.com/baharkarakas/hearthcloud/internal/models"
	repo "github.com/baharkarakas/hearthcloud/internal/repository"
)

type UserService struct {
	users  repo.Users
	hasher auth.Hasher
	events events.Emitter
}

func NewUserService(users repo.Users, hasher auth.Hasher, em events.Emitter) *UserService {
	return &UserService{users: users, hasher: hasher, events: em}
}

func errUserNotFound(err error) error { return lookup(err, "user_not_found", "user not found") }

// Profile never fails on stats; they fall back to zeros.
func (s *UserService) Profile(ctx context.Context, userID int64) (models.Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.Profile{}, errUserNotFound(err)
	}
	stats, err := s.users.Stats(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "profile stats unavailable", "user_id", userID, "err", err)
		stats = models.UserStats{}
	}
	return models.Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Stats:     stats,
	}, nil
}

// DeleteAccount removes the user and everything they own. The caller must
// destroy the user's sessions afterwards.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64, password string) error {
	if errs := validate.Required("password", password); !errs.Empty() {
		return invalidFirst(errs)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return errUserNotFound(err)
	}
	ok, err := s.hasher.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return internal(err)
	}
	if !ok {
		return apperr.Unauthenticated("wrong_password", "password is incorrect")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return errUserNotFound(err)
	}
	s.events.Emit(ctx, events.New(events.AccountDeleted, userID, 0))
	return nil
}
