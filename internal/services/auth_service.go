package services

import (
	"context"
	"errors"

	"github.com/baharkarakas/hearthcloud/internal/api/validate"
	"github.com/baharkarakas/hearthcloud/internal/apperr"
	"github.com/baharkarakas/hearthcloud/internal/auth"
	"github.com/baharkarakas/hearthcloud/internal/models"
	repo "github.com/baharkarakas/hearthcloud/internal/repository"
	"github.com/baharkarakas/hearthcloud/internal/session"
)

type AuthService struct {
	users  repo.Users
	hasher auth.Hasher
}

func NewAuthService(users repo.Users, hasher auth.Hasher) *AuthService {
	return &AuthService{users: users, hasher: hasher}
}

type RegisterInput = validate.Registration

func errEmailTaken() error {
	return apperr.Conflict("email_taken", "email is already registered")
}

func errUsernameTaken() error {
	return apperr.Conflict("username_taken", "username is already in use").WithField("username")
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.UserSummary, error) {
	if errs := validate.Register(in); !errs.Empty() {
		return models.UserSummary{}, invalid(errs)
	}

	taken, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return models.UserSummary{}, internal(err)
	}
	if taken {
		return models.UserSummary{}, errEmailTaken()
	}
	taken, err = s.users.UsernameExists(ctx, in.Username)
	if err != nil {
		return models.UserSummary{}, internal(err)
	}
	if taken {
		return models.UserSummary{}, errUsernameTaken()
	}

	pwHash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return models.UserSummary{}, internal(err)
	}
	answerHash, err := s.hasher.HashAnswer(in.SecurityAnswer)
	if err != nil {
		return models.UserSummary{}, internal(err)
	}

	id, err := s.users.Create(ctx, models.NewUser{
		Username:           in.Username,
		Email:              in.Email,
		PasswordHash:       pwHash,
		SecurityQuestion:   in.SecurityQuestion,
		SecurityAnswerHash: answerHash,
	})
	if errors.Is(err, repo.ErrConflict) {
		// lost a race with a concurrent registration
		taken, err := s.users.EmailExists(ctx, in.Email)
		if err != nil {
			return models.UserSummary{}, internal(err)
		}
		if taken {
			return models.UserSummary{}, errEmailTaken()
		}
		return models.UserSummary{}, errUsernameTaken()
	}
	if err != nil {
		return models.UserSummary{}, internal(err)
	}
	return models.UserSummary{ID: id, Username: in.Username, Email: in.Email}, nil
}

func errInvalidCredentials() error {
	return apperr.Unauthenticated("invalid_credentials", "email or password incorrect")
}

// Login answers identically for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.UserSummary, error) {
	if errs := validate.Required("email", email, "password", password); !errs.Empty() {
		return models.UserSummary{}, invalidFirst(errs)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return models.UserSummary{}, errInvalidCredentials()
	}
	if err != nil {
		return models.UserSummary{}, internal(err)
	}
	ok, err := s.hasher.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return models.UserSummary{}, internal(err)
	}
	if !ok {
		return models.UserSummary{}, errInvalidCredentials()
	}
	return u.Summary(), nil
}

type RecoveryChallenge struct {
	UserID           int64  `json:"userId"`
	SecurityQuestion string `json:"securityQuestion"`
}

// RecoveryInit starts the flow over; the returned state clears any earlier
// verification.
func (s *AuthService) RecoveryInit(ctx context.Context, email string) (RecoveryChallenge, session.Recovery, error) {
	if errs := validate.Required("email", email); !errs.Empty() {
		return RecoveryChallenge{}, session.Recovery{}, invalidFirst(errs)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return RecoveryChallenge{}, session.Recovery{}, lookup(err, "email_not_registered", "email is not registered")
	}
	return RecoveryChallenge{UserID: u.ID, SecurityQuestion: u.SecurityQuestion}, session.Recovery{}, nil
}

// RecoveryVerify grants the password change on a matching answer. On any
// failure the caller keeps its current state.
func (s *AuthService) RecoveryVerify(ctx context.Context, userID int64, answer string) (session.Recovery, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return session.Recovery{}, lookup(err, "user_not_found", "user not found")
	}
	ok, err := s.hasher.VerifyAnswer(answer, u.SecurityAnswerHash)
	if err != nil {
		return session.Recovery{}, internal(err)
	}
	if !ok {
		return session.Recovery{}, apperr.Unauthenticated("wrong_answer", "security answer is incorrect")
	}
	return session.Recovery{UserID: u.ID, Allowed: true}, nil
}

// ChangePassword requires a verified recovery state and returns the cleared
// state on success.
func (s *AuthService) ChangePassword(ctx context.Context, rec session.Recovery, newPassword, confirm string) (session.Recovery, error) {
	if !rec.Permits() {
		return rec, apperr.Forbidden("recovery_not_allowed", "not authorized to change the password")
	}
	if errs := validate.Password(newPassword, confirm); !errs.Empty() {
		return rec, invalid(errs)
	}
	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return rec, internal(err)
	}
	if err := s.users.UpdatePassword(ctx, rec.UserID, hash); err != nil {
		return rec, lookup(err, "user_not_found", "user not found")
	}
	return session.Recovery{}, nil
}
