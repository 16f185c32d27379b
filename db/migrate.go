package db

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"

	"github.com/yashranaway/flexile/core/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationLogger routes golang-migrate output through the app logger
type migrationLogger struct{}

func (migrationLogger) Printf(format string, v ...any) {
	log.Infof("📋 "+strings.TrimRight(format, "\n"), v...)
}

func (migrationLogger) Verbose() bool {
	return false
}

// RunMigrations applies all pending embedded migrations inside the given schema
func RunMigrations(databaseURL, schema string) error {
	log.Infof("📋 Starting to run migrations for schema: %s", schema)

	migrationURL, err := withSearchPath(databaseURL, schema)
	if err != nil {
		return err
	}

	conn, err := NewConnection(migrationURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Exec("CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(schema)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := postgres.WithInstance(conn.DB, &postgres.Config{SchemaName: schema})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()
	m.Log = migrationLogger{}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Infof("📋 Completed successfully - no new migrations to apply")
			return nil
		}

		version, dirty, _ := m.Version()
		log.Errorf("❌ Migration failed at version %d (dirty=%t): %v", version, dirty, err)
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, _, _ := m.Version()
	log.Infof("📋 Completed successfully - schema %s is at version %d", schema, version)
	return nil
}

// withSearchPath pins unqualified table names in migration files to the target schema.
// lib/pq forwards unknown connection parameters to the server as runtime settings.
func withSearchPath(databaseURL, schema string) (string, error) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}

	query := parsed.Query()
	query.Set("search_path", schema)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
