package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

// DB is the subset of *pgxpool.Pool the repositories use. pgxmock.PgxPoolIface
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func NewPool(ctx context.Context, dsn string, maxConns, minConns int32, maxConnLife time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = maxConnLife
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// NewStore wires every postgres repository on top of pool.
func NewStore(pool *pgxpool.Pool) repository.Store {
	return repository.Store{
		Users:     NewUserRepository(pool),
		Recipes:   NewRecipeRepository(pool),
		Comments:  NewCommentRepository(pool),
		Favorites: NewFavoriteRepository(pool),
		IDs:       repository.UUIDScheme{},
		Close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}
}

func pgCode(err error) string {
	var pg *pgconn.PgError
	if errors.As(err, &pg) {
		return pg.Code
	}
	return ""
}

// isUniqueViolation reports whether the error is a unique constraint violation.
func isUniqueViolation(err error) bool { return pgCode(err) == "23505" }

// isForeignKeyViolation reports a reference to a missing parent row.
func isForeignKeyViolation(err error) bool { return pgCode(err) == "23503" }

// isInvalidText reports a value postgres could not parse, such as a malformed uuid.
func isInvalidText(err error) bool { return pgCode(err) == "22P02" }
