package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baharkarakas/hearthcloud/internal/cache"
	"github.com/baharkarakas/hearthcloud/internal/metrics"
)

const DefaultCacheTTL = 5 * time.Minute

var (
	ErrQuery  = errors.New("db: query failed")
	ErrNoRows = pgx.ErrNoRows
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Executor runs parameterized statements. Reads marked cacheable are served
// from its cache for up to ttl; writes never invalidate it.
type Executor struct {
	db    DBTX
	cache cache.Cache[[]byte]
	ttl   time.Duration
	sf    cache.Group
}

// NewExecutor builds an executor. A nil cache disables caching.
func NewExecutor(db DBTX, c cache.Cache[[]byte], ttl time.Duration) *Executor {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Executor{db: db, cache: c, ttl: ttl}
}

func (e *Executor) TTL() time.Duration { return e.ttl }

// Sweep drops expired cache entries.
func (e *Executor) Sweep(ctx context.Context) (int, error) {
	if e.cache == nil {
		return 0, nil
	}
	return e.cache.Sweep(ctx)
}

// Query maps every row onto T by db tag. Cached results round-trip through
// encoding/json, so T must too.
func Query[T any](ctx context.Context, e *Executor, cacheable bool, sql string, args ...any) ([]T, error) {
	fetch := func(ctx context.Context) ([]T, error) {
		rows, err := e.db.Query(ctx, sql, args...)
		if err != nil {
			return nil, errors.Join(ErrQuery, err)
		}
		out, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
		if err != nil {
			return nil, errors.Join(ErrQuery, err)
		}
		return out, nil
	}
	if !cacheable || e.cache == nil {
		return fetch(ctx)
	}
	return cached(ctx, e, CacheKey(sql, args), fetch)
}

// First returns the first row of Query or ErrNoRows.
func First[T any](ctx context.Context, e *Executor, cacheable bool, sql string, args ...any) (T, error) {
	rows, err := Query[T](ctx, e, cacheable, sql, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(rows) == 0 {
		var zero T
		return zero, ErrNoRows
	}
	return rows[0], nil
}

// Scalar scans a single-column single-row result, typically RETURNING id or COUNT(*).
func Scalar[T any](ctx context.Context, e *Executor, sql string, args ...any) (T, error) {
	var v T
	if err := e.db.QueryRow(ctx, sql, args...).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return v, ErrNoRows
		}
		return v, errors.Join(ErrQuery, err)
	}
	return v, nil
}

// Exec runs a statement and reports the affected row count.
func (e *Executor) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := e.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, errors.Join(ErrQuery, err)
	}
	return tag.RowsAffected(), nil
}

// CacheKey derives the cache key from the statement text and its parameters.
func CacheKey(sql string, args []any) string {
	params, err := json.Marshal(args)
	if err != nil {
		params = nil
	}
	sum := sha256.Sum256(append([]byte(sql+"\x00"), params...))
	return hex.EncodeToString(sum[:])
}

func cached[T any](ctx context.Context, e *Executor, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	raw, hit, err := cache.GetOrSet(ctx, &e.sf, e.cache, key, e.ttl, func(ctx context.Context) ([]byte, error) {
		rows, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(rows)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		metrics.QueryCacheRequests.WithLabelValues("hit").Inc()
	} else {
		metrics.QueryCacheRequests.WithLabelValues("miss").Inc()
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	return out, nil
}

// IsUniqueViolation reports whether err carries Postgres error 23505.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation reports whether err carries Postgres error 23503.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
