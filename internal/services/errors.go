package services

import (
	"errors"

	"github.com/baharkarakas/hearthcloud/internal/api/validate"
	"github.com/baharkarakas/hearthcloud/internal/apperr"
	repo "github.com/baharkarakas/hearthcloud/internal/repository"
)

// invalid reports every collected reason.
func invalid(errs validate.Errs) error {
	return apperr.Validation("validation failed", errs...)
}

// invalidFirst reports only the first reason.
func invalidFirst(errs validate.Errs) error {
	return apperr.Validation(errs.First())
}

// lookup maps repository misses to a not-found error and anything else to internal.
func lookup(err error, code, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound(code, msg)
	}
	return apperr.Internal("internal server error", err)
}

func internal(err error) error {
	return apperr.Internal("internal server error", err)
}

// owned enforces not-found before forbidden for owner-only mutations.
func owned(ownerID int64, err error, userID int64, code, msg string) error {
	if err != nil {
		return lookup(err, code, msg)
	}
	if ownerID != userID {
		return apperr.Forbidden("not_owner", "you do not have permission to modify this resource")
	}
	return nil
}
