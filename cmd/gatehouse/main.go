// Gatehouse - standalone authentication service
//
// This is the main entry point for Gatehouse. It exposes account
// registration, credential sign-in, JWT session management, and an
// auditable authentication trail over a REST API backed by SQLite.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	_ "github.com/finleydale/gatehouse/migrations"

	"github.com/finleydale/gatehouse/internal/api"
	"github.com/finleydale/gatehouse/internal/audit"
	"github.com/finleydale/gatehouse/internal/auth"
	"github.com/finleydale/gatehouse/internal/infrastructure/config"
	"github.com/finleydale/gatehouse/internal/infrastructure/database"
	"github.com/finleydale/gatehouse/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Load .env if present. Real environment variables win over file values.
	//nolint:errcheck // a missing .env file is the normal case
	godotenv.Load()

	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Gatehouse",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath, "environment", cfg.Environment)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Wire the auth service
	users := auth.NewUserRepository(db.DB)
	tokens := auth.NewTokenManager(
		cfg.Security.JWT.AccessSecret,
		cfg.Security.JWT.RefreshSecret,
		cfg.Security.AccessTokenTTL(),
		cfg.Security.RefreshTokenTTL(),
		log,
	)
	service := auth.NewService(users, tokens, log)
	auditRepo := audit.NewSQLiteRepository(db.DB)

	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting accounts: %w", err)
	}
	log.Info("auth service initialised", "accounts", count)

	// Start the API server
	server, err := api.New(api.Deps{
		Config:  cfg,
		Logger:  log,
		Service: service,
		Users:   users,
		Audit:   auditRepo,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
	)

	// Verify connections are healthy
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order: API server, database.

	log.Info("Gatehouse stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses GATEHOUSE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GATEHOUSE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
