package migrate

import (
	"context"
	"embed"
	"log/slog"

	"deskbook/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Up applies all pending migrations. goose needs *sql.DB, so the pool is
// bridged through pgx's stdlib adapter; the adapter is closed afterwards
// without closing the pool itself.
func Up(ctx context.Context, pool *pgxpool.Pool) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return errs.Wrap(err, "failed to set goose dialect")
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Warn("failed to close migration connection", "error", err.Error())
		}
	}()

	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return errs.Wrap(err, "failed to apply migrations")
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return errs.Wrap(err, "failed to read migration version")
	}
	slog.Info("migrations applied", "version", version)

	return nil
}
