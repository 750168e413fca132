package gormstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql

	"github.com/marmos91/gridaccounts/internal/logger"
	"github.com/marmos91/gridaccounts/pkg/accounts/gormstore/migrations"
)

// runMigrations applies the embedded PostgreSQL migrations.
// golang-migrate takes an advisory lock, so concurrent instances are safe.
func runMigrations(ctx context.Context, connString string) error {
	logger.Info("Running account directory migrations")

	db, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "accounts_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No migrations to apply (database is up to date)")
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	default:
		logger.Info("Migrations completed successfully")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		logger.Warn("Account schema is in dirty state - manual intervention may be required", "version", version)
	} else {
		logger.Debug("Current account schema version", "version", version)
	}

	return nil
}
