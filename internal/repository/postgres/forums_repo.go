package postgres

import (
	"context"
	"strings"

	"github.com/baharkarakas/hearthcloud/internal/db"
	"github.com/baharkarakas/hearthcloud/internal/models"
	"github.com/baharkarakas/hearthcloud/internal/repository"
)

type forumsRepo struct{ exec *db.Executor }

func NewForums(exec *db.Executor) repository.Forums {
	return &forumsRepo{exec: exec}
}

const forumSelect = `SELECT f.id, f.name, f.description, f.user_id, u.username AS author, f.created_at
    FROM forums f JOIN users u ON u.id = f.user_id`

func (r *forumsRepo) Create(ctx context.Context, name, description string, userID int64) (int64, error) {
	id, err := db.Scalar[int64](ctx, r.exec,
		`INSERT INTO forums(name, description, user_id) VALUES($1,$2,$3) RETURNING id`,
		name, description, userID)
	return id, mapErr(err)
}

func (r *forumsRepo) GetByID(ctx context.Context, id int64) (models.Forum, error) {
	f, err := db.First[models.Forum](ctx, r.exec, true, forumSelect+` WHERE f.id=$1`, id)
	return f, mapErr(err)
}

func (r *forumsRepo) OwnerOf(ctx context.Context, id int64) (int64, error) {
	uid, err := db.Scalar[int64](ctx, r.exec, `SELECT user_id FROM forums WHERE id=$1`, id)
	return uid, mapErr(err)
}

func (r *forumsRepo) NameExists(ctx context.Context, name string) (bool, error) {
	ok, err := db.Scalar[bool](ctx, r.exec, `SELECT EXISTS(SELECT 1 FROM forums WHERE lower(name)=lower($1))`, name)
	return ok, mapErr(err)
}

func (r *forumsRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Forum, error) {
	out, err := db.Query[models.Forum](ctx, r.exec, false,
		forumSelect+` WHERE f.user_id=$1 ORDER BY f.created_at DESC, f.id DESC LIMIT $2`, userID, limit)
	return out, mapErr(err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *forumsRepo) Search(ctx context.Context, q string) ([]models.Forum, error) {
	out, err := db.Query[models.Forum](ctx, r.exec, false,
		forumSelect+` WHERE f.name ILIKE $1 ORDER BY f.created_at DESC, f.id DESC`,
		"%"+likeEscaper.Replace(q)+"%")
	return out, mapErr(err)
}

func (r *forumsRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.exec.Exec(ctx, `DELETE FROM forums WHERE id=$1`, id))
}
