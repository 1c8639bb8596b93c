package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"train-booking/internal/config"
	"train-booking/internal/database"

	"github.com/golang-migrate/migrate/v4"
	flag "github.com/spf13/pflag"
)

var errUnknownDirection = errors.New("unknown direction")

func main() {
	direction := flag.StringP("direction", "d", "up", "migration direction: up, down or version")
	steps := flag.IntP("steps", "n", 0, "number of migrations to apply (0 applies all)")
	flag.Parse()

	if err := checkDirection(*direction); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	if err := migrateStore(*direction, *steps); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

func checkDirection(direction string) error {
	switch direction {
	case "up", "down", "version":
		return nil
	default:
		return fmt.Errorf("%w %q", errUnknownDirection, direction)
	}
}

// migrateStore applies the embedded migrations and prints the resulting
// version. Every resource it opens is closed before it returns.
func migrateStore(direction string, steps int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	m, err := database.NewMigrator(db)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := run(m, direction, steps); err != nil {
		return err
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		fmt.Println("no migrations applied")
	case err != nil:
		return fmt.Errorf("read migration version: %w", err)
	default:
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
	}
	return nil
}

func run(m *migrate.Migrate, direction string, steps int) error {
	var err error
	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "version":
		return nil
	default:
		return checkDirection(direction)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("No migrations to apply")
		return nil
	}
	return err
}
