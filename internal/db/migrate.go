package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var ErrMigrate = errors.New("db: failed to apply migrations")

func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	// shares the pool's connections; closing it would close the pool
	sqlDB := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{log})
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrMigrate, err)
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return errors.Join(ErrMigrate, err)
	}
	return nil
}

type gooseLogger struct{ log *slog.Logger }

func (g gooseLogger) Printf(format string, args ...any) { g.log.Info(fmt.Sprintf(format, args...)) }
func (g gooseLogger) Fatalf(format string, args ...any) { g.log.Error(fmt.Sprintf(format, args...)) }
