package db

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies every pending up migration found in migrationsPath.
func RunMigrations(dsn, migrationsPath string, log *slog.Logger) error {
	if dsn == "" {
		return errors.New("migrations DSN must not be empty")
	}
	if migrationsPath == "" {
		return errors.New("migrations path must not be empty")
	}

	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration %d is dirty, fix it manually", version)
	}

	log.Info("migrations applied", slog.Uint64("version", uint64(version)))
	return nil
}
