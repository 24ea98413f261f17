package postgres

import (
	"context"

	"github.com/baharkarakas/hearthcloud/internal/db"
	"github.com/baharkarakas/hearthcloud/internal/models"
	"github.com/baharkarakas/hearthcloud/internal/repository"
)

type postsRepo struct{ exec *db.Executor }

func NewPosts(exec *db.Executor) repository.Posts {
	return &postsRepo{exec: exec}
}

func (r *postsRepo) Create(ctx context.Context, forumID, userID int64, content string) (models.Post, error) {
	p, err := db.First[models.Post](ctx, r.exec, false,
		`WITH p AS (
            INSERT INTO posts(content, user_id, forum_id) VALUES($1,$2,$3)
            RETURNING id, content, user_id, forum_id, published_at, updated_at
         )
         SELECT p.id, p.content, p.user_id, p.forum_id, u.username AS author, p.published_at, p.updated_at
         FROM p JOIN users u ON u.id = p.user_id`,
		content, userID, forumID)
	return p, mapErr(err)
}

func (r *postsRepo) OwnerOf(ctx context.Context, id int64) (int64, error) {
	uid, err := db.Scalar[int64](ctx, r.exec, `SELECT user_id FROM posts WHERE id=$1`, id)
	return uid, mapErr(err)
}

func (r *postsRepo) ListByForum(ctx context.Context, forumID int64) ([]models.Post, error) {
	out, err := db.Query[models.Post](ctx, r.exec, false,
		`SELECT p.id, p.content, p.user_id, p.forum_id, u.username AS author, p.published_at, p.updated_at
         FROM posts p JOIN users u ON u.id = p.user_id
         WHERE p.forum_id=$1
         ORDER BY p.published_at DESC, p.id DESC`, forumID)
	return out, mapErr(err)
}

func (r *postsRepo) UpdateContent(ctx context.Context, id int64, content string) error {
	return affected(r.exec.Exec(ctx,
		`UPDATE posts SET content=$2, updated_at=now() WHERE id=$1`, id, content))
}

func (r *postsRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.exec.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id))
}
