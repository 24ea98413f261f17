package postgres

import (
	"context"

	"github.com/baharkarakas/hearthcloud/internal/db"
	"github.com/baharkarakas/hearthcloud/internal/models"
	"github.com/baharkarakas/hearthcloud/internal/repository"
)

type commentsRepo struct{ exec *db.Executor }

func NewComments(exec *db.Executor) repository.Comments {
	return &commentsRepo{exec: exec}
}

func (r *commentsRepo) Create(ctx context.Context, postID, userID int64, content string) (models.Comment, error) {
	c, err := db.First[models.Comment](ctx, r.exec, false,
		`WITH c AS (
            INSERT INTO comments(content, user_id, post_id) VALUES($1,$2,$3)
            RETURNING id, content, user_id, post_id, created_at, updated_at
         )
         SELECT c.id, c.content, c.user_id, c.post_id, u.username AS author, c.created_at, c.updated_at
         FROM c JOIN users u ON u.id = c.user_id`,
		content, userID, postID)
	return c, mapErr(err)
}

func (r *commentsRepo) OwnerOf(ctx context.Context, id int64) (int64, error) {
	uid, err := db.Scalar[int64](ctx, r.exec, `SELECT user_id FROM comments WHERE id=$1`, id)
	return uid, mapErr(err)
}

func (r *commentsRepo) ListByPosts(ctx context.Context, postIDs []int64) ([]models.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	out, err := db.Query[models.Comment](ctx, r.exec, false,
		`SELECT c.id, c.content, c.user_id, c.post_id, u.username AS author, c.created_at, c.updated_at
         FROM comments c JOIN users u ON u.id = c.user_id
         WHERE c.post_id = ANY($1)
         ORDER BY c.created_at ASC, c.id ASC`, postIDs)
	return out, mapErr(err)
}

func (r *commentsRepo) UpdateContent(ctx context.Context, id int64, content string) error {
	return affected(r.exec.Exec(ctx,
		`UPDATE comments SET content=$2, updated_at=now() WHERE id=$1`, id, content))
}

func (r *commentsRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.exec.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id))
}
