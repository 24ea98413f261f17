package postgres

import (
	"context"

	"github.com/baharkarakas/hearthcloud/internal/db"
	"github.com/baharkarakas/hearthcloud/internal/models"
	"github.com/baharkarakas/hearthcloud/internal/repository"
)

type usersRepo struct{ exec *db.Executor }

func NewUsers(exec *db.Executor) repository.Users {
	return &usersRepo{exec: exec}
}

const userColumns = `id, username, email, password_hash, security_question, security_answer_hash, created_at`

func (r *usersRepo) Create(ctx context.Context, u models.NewUser) (int64, error) {
	id, err := db.Scalar[int64](ctx, r.exec,
		`INSERT INTO users(username, email, password_hash, security_question, security_answer_hash)
         VALUES($1,$2,$3,$4,$5) RETURNING id`,
		u.Username, u.Email, u.PasswordHash, u.SecurityQuestion, u.SecurityAnswerHash,
	)
	return id, mapErr(err)
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := db.First[models.User](ctx, r.exec, false,
		`SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	return u, mapErr(err)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := db.First[models.User](ctx, r.exec, false,
		`SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email)
	return u, mapErr(err)
}

func (r *usersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	ok, err := db.Scalar[bool](ctx, r.exec, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email)=lower($1))`, email)
	return ok, mapErr(err)
}

func (r *usersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	ok, err := db.Scalar[bool](ctx, r.exec, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(username)=lower($1))`, username)
	return ok, mapErr(err)
}

func (r *usersRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return affected(r.exec.Exec(ctx, `UPDATE users SET password_hash=$2 WHERE id=$1`, id, hash))
}

func (r *usersRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.exec.Exec(ctx, `DELETE FROM users WHERE id=$1`, id))
}

type statsRow struct {
	ForumsCreated int64 `db:"forums_created"`
	Posts         int64 `db:"posts"`
	Comments      int64 `db:"comments"`
}

func (r *usersRepo) Stats(ctx context.Context, id int64) (models.UserStats, error) {
	s, err := db.First[statsRow](ctx, r.exec, false,
		`SELECT (SELECT COUNT(*) FROM forums   WHERE user_id=$1) AS forums_created,
                (SELECT COUNT(*) FROM posts    WHERE user_id=$1) AS posts,
                (SELECT COUNT(*) FROM comments WHERE user_id=$1) AS comments`, id)
	if err != nil {
		return models.UserStats{}, mapErr(err)
	}
	return models.UserStats{ForumsCreated: s.ForumsCreated, Posts: s.Posts, Comments: s.Comments}, nil
}
