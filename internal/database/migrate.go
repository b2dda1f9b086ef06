package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// MigrationsDir is relative to the working directory of the binary.
var MigrationsDir = "file://migrations"

// ErrDirtySchema means a previous migration stopped halfway. It needs a manual
// force before the service can start.
var ErrDirtySchema = errors.New("schema is dirty")

func newMigrator(databaseURL string) (*migrate.Migrate, error) {
	m, err := migrate.New(MigrationsDir, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open migrations %s: %w", MigrationsDir, err)
	}
	return m, nil
}

// schemaVersion reports 0 for a database that has never been migrated.
func schemaVersion(m *migrate.Migrate) (uint, bool, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// RunMigrations brings the transaction and rate tables up to the latest
// schema.
func RunMigrations(databaseURL string) error {
	m, err := newMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	from, dirty, err := schemaVersion(m)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("%w at version %d", ErrDirtySchema, from)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations from version %d: %w", from, err)
	}

	to, _, err := schemaVersion(m)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.Info().
		Uint("from_version", from).
		Uint("to_version", to).
		Msg("schema up to date")

	return nil
}

func RollbackMigrations(databaseURL string) error {
	m, err := newMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("roll back migrations: %w", err)
	}

	log.Info().Msg("schema dropped")
	return nil
}
