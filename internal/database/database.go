package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AnshRaj112/contact-manager/internal/config"
)

// Connect opens the configured relational store and brings its schema up to date.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sqlx.DB, error) {
	start := time.Now()

	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err = ConnectPostgres(ctx, cfg.DatabaseURL)
	case config.DriverSQLite:
		db, err = ConnectSQLite(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
	if err != nil {
		logger.Error("failed to connect to database", "driver", cfg.DatabaseDriver, "error", err)
		return nil, err
	}

	logger.Info("database connection established",
		"driver", cfg.DatabaseDriver,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if err := Migrate(db); err != nil {
		db.Close()
		logger.Error("failed to migrate database", "driver", cfg.DatabaseDriver, "error", err)
		return nil, err
	}
	logger.Info("database schema up to date", "driver", cfg.DatabaseDriver)

	return db, nil
}

// Migrate applies the embedded schema for the driver db was opened with.
func Migrate(db *sqlx.DB) error {
	switch db.DriverName() {
	case "postgres":
		return migratePostgres(db)
	case "sqlite":
		return migrateSQLite(db)
	default:
		return fmt.Errorf("no migrations for driver %q", db.DriverName())
	}
}
