package postgres

import (
	"errors"

	"github.com/baharkarakas/hearthcloud/internal/db"
	repo "github.com/baharkarakas/hearthcloud/internal/repository"
)

type Repositories struct {
	Users    repo.Users
	Forums   repo.Forums
	Posts    repo.Posts
	Comments repo.Comments
}

func NewRepositories(exec *db.Executor) Repositories {
	return Repositories{
		Users:    &usersRepo{exec},
		Forums:   &forumsRepo{exec},
		Posts:    &postsRepo{exec},
		Comments: &commentsRepo{exec},
	}
}

// mapErr translates driver errors into repository sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrNoRows):
		return repo.ErrNotFound
	case db.IsUniqueViolation(err):
		return errors.Join(repo.ErrConflict, err)
	case db.IsForeignKeyViolation(err):
		return errors.Join(repo.ErrNotFound, err)
	default:
		return err
	}
}

func affected(n int64, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return nil
}
