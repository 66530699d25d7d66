package pgstore

import (
	"context"
	"embed"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema migrations. The pgx pool is bridged to
// database/sql because goose expects the standard library interface.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		_ = db.Close()
	}()

	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(errors.New("failed to apply migrations"), err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Join(errors.New("failed to apply migrations"), err)
	}

	return nil
}
