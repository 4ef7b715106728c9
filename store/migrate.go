package store

import (
	"context"
	"embed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	toyyibpay "github.com/Afterkelas/toyyibpay-go"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded schema migrations to the database behind the
// pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return toyyibpay.NewDatabaseError("failed to set migration dialect: "+err.Error(), "", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return toyyibpay.NewDatabaseError("failed to run migrations: "+err.Error(), "", err)
	}
	return nil
}
