package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrations embed.FS

const createTableMigration = "migrations/000001_create_bookings.up.sql"

func createTableStatement() (string, error) {
	b, err := migrations.ReadFile(createTableMigration)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", createTableMigration, err)
	}
	return string(b), nil
}

// NewMigrator returns a migrate instance that applies the embedded
// migrations to db.
func NewMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("init mysql migration driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", src, "mysql", driver)
}
