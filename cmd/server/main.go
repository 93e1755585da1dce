// Package main implements the entry point for the taskboard API
// server, which serves access-controlled task tracking with categories,
// embedded comments, and per-user aggregation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	migrationsDir := flag.String("migrations-dir", "migrations", "directory holding goose migration files")
	flag.Parse()

	if err := run(*migrateCmd, *migrationsDir); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// run wires configuration, logging, the database, and the application
// together. Kept separate from main so it can return errors.
func run(migrateCmd, migrationsDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if migrateCmd != "" {
		migErr := runMigrations(db, migrateCmd, migrationsDir, appLogger)
		if cerr := db.Close(); cerr != nil {
			appLogger.Error("Error closing database connection", "error", cerr)
		}
		if migErr != nil {
			return fmt.Errorf("migration failed: %w", migErr)
		}
		appLogger.Info("Migration command completed", "command", migrateCmd)
		return nil
	}

	ctx := context.Background()
	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
