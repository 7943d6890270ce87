// Package migrations embeds the schema migrations and runs them through
// golang-migrate, following codeready-toolchain-tarsy's pkg/database
// migration-runner convention (embed.FS + iofs source, explicit Up()).
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var sqlFS embed.FS

// Up applies all pending migrations against dsn. It returns nil when the
// schema is already current.
func Up(dsn string) error {
	source, err := iofs.New(sqlFS, "sql")
	if err != nil {
		return fmt.Errorf("migrations: opening embedded source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("migrations: building migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: applying: %w", err)
	}
	return nil
}

// Down rolls back every applied migration. Intended for local/dev use and
// the integration test suite, never for production operation.
func Down(dsn string) error {
	source, err := iofs.New(sqlFS, "sql")
	if err != nil {
		return fmt.Errorf("migrations: opening embedded source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("migrations: building migrator: %w", err)
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: rolling back: %w", err)
	}
	return nil
}
