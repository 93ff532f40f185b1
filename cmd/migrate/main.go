package main

import (
	"context"
	"os"

	"app/internal/config"
	"app/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

// One-shot migration runner: applies migrations/001_init.sql and exits.
func main() {
	logger := logger.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	migration, err := os.ReadFile("migrations/001_init.sql")
	if err != nil {
		logger.Fatal().Msgf("Failed to read migration: %v", err)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Msgf("Failed to connect: %v", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, string(migration)); err != nil {
		logger.Fatal().Msgf("Migration failed: %v", err)
	}
	logger.Info().Msg("migrated")
}
