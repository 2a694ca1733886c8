package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"hbBooking/internal/config"
	"hbBooking/internal/lib/logger/sl"
	"hbBooking/internal/storage/postgres"
	"hbBooking/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"
)

func main() {
	var (
		down    bool
		steps   int
		version int
	)
	flag.BoolVar(&down, "down", false, "roll back instead of applying")
	flag.IntVar(&steps, "steps", 0, "number of migrations to apply or roll back, 0 for all")
	flag.IntVar(&version, "force", -1, "force the schema version and clear the dirty flag")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	storage, err := postgres.InitDB(&cfg.Database)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() { _ = storage.Close() }()

	dbDriver, err := migratepg.WithInstance(storage.DB, &migratepg.Config{})
	if err != nil {
		log.Error("failed to create database driver", sl.Err(err))
		os.Exit(1)
	}

	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Error("failed to create source driver", sl.Err(err))
		os.Exit(1)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		log.Error("failed to create migrator", sl.Err(err))
		os.Exit(1)
	}

	switch {
	case version >= 0:
		err = m.Force(version)
	case steps != 0 && down:
		err = m.Steps(-steps)
	case steps != 0:
		err = m.Steps(steps)
	case down:
		err = m.Down()
	default:
		err = m.Up()
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
			return
		}
		log.Error("migration failed", sl.Err(err))
		os.Exit(1)
	}

	v, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Error("failed to read schema version", sl.Err(err))
		os.Exit(1)
	}

	log.Info("migrations applied", slog.Uint64("version", uint64(v)), slog.Bool("dirty", dirty))
}
