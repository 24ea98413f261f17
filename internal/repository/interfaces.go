package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/hearthcloud/internal/models"
)

var (
	ErrNotFound = errors.New("repository: not found")
	ErrConflict = errors.New("repository: unique constraint violated")
)

type Users interface {
	Create(ctx context.Context, u models.NewUser) (int64, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, id int64) (models.UserStats, error)
}

type Forums interface {
	Create(ctx context.Context, name, description string, userID int64) (int64, error)
	// GetByID may be served from the query cache.
	GetByID(ctx context.Context, id int64) (models.Forum, error)
	OwnerOf(ctx context.Context, id int64) (int64, error)
	NameExists(ctx context.Context, name string) (bool, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.Forum, error)
	Search(ctx context.Context, q string) ([]models.Forum, error)
	Delete(ctx context.Context, id int64) error
}

type Posts interface {
	Create(ctx context.Context, forumID, userID int64, content string) (models.Post, error)
	OwnerOf(ctx context.Context, id int64) (int64, error)
	ListByForum(ctx context.Context, forumID int64) ([]models.Post, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
}

type Comments interface {
	Create(ctx context.Context, postID, userID int64, content string) (models.Comment, error)
	OwnerOf(ctx context.Context, id int64) (int64, error)
	ListByPosts(ctx context.Context, postIDs []int64) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
}
