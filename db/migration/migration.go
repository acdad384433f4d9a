// Package migration embeds the ledger database schema and applies it.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var files embed.FS

// withMigrate runs fn with a migrate instance bound to one connection taken
// from db. Closing the instance returns that connection to the pool; db itself
// is never closed.
func withMigrate(db *sql.DB, fn func(*migrate.Migrate) error) error {
	ctx := context.Background()

	src, err := iofs.New(files, ".")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get a migration connection: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{SchemaName: "public"})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to create postgres driver instance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	defer func() {
		_, _ = m.Close()
	}()

	return fn(m)
}

// Up migrates the database all the way up. An already current schema is not an error.
func Up(db *sql.DB) error {
	return withMigrate(db, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			var dirtyErr migrate.ErrDirty
			if errors.As(err, &dirtyErr) {
				return fmt.Errorf("migration failed: dirty database version %d", dirtyErr.Version)
			}

			return fmt.Errorf("migration failed: %w", err)
		}

		return nil
	})
}

// Down rolls every migration back.
func Down(db *sql.DB) error {
	return withMigrate(db, func(m *migrate.Migrate) error {
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration rollback failed: %w", err)
		}

		return nil
	})
}
