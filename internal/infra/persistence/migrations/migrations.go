// Package migrations embeds the versioned Postgres schema and applies it with golang-migrate.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"

	"greenhood/internal/errors"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const sourceDir = "sql"

//go:embed sql/*.sql
var files embed.FS

// Source opens the embedded migration files.
func Source() (source.Driver, error) {
	src, err := iofs.New(files, sourceDir)
	if err != nil {
		return nil, errors.Wrap(err, "open embedded migrations")
	}

	return src, nil
}

// Apply migrates the database to the latest version on a dedicated connection.
// The pool itself stays open; only the borrowed connection is returned.
func Apply(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return errors.Wrap(err, "borrow migration connection")
	}

	driver, err := migratepg.WithConnection(ctx, conn, &migratepg.Config{})
	if err != nil {
		_ = conn.Close()

		return errors.Wrap(err, "init migration driver")
	}

	src, err := Source()
	if err != nil {
		_ = driver.Close()

		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = src.Close()
		_ = driver.Close()

		return errors.Wrap(err, "init migrator")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return errors.Wrap(err, "read migration version")
	}

	logger.Info("Schema migrated", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

	return nil
}
