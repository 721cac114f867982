package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"mediatracker/internal/config"
	"mediatracker/internal/logging"
	"mediatracker/internal/platform/postgres"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, version, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	loadEnvFiles()
	logging.Init(logging.Config{Level: os.Getenv("LOG_LEVEL"), Format: "console"})

	if err := run(context.Background(), *command, *name); err != nil {
		logging.Fatal().Err(err).Str("command", *command).Msg("migration failed")
	}
}

func run(ctx context.Context, command, name string) error {
	switch command {
	case "up", "down", "status", "version", "create":
	default:
		return fmt.Errorf("unknown command %q; use up, down, status, version, create", command)
	}

	dir := migrationsDir()
	if command == "create" {
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, name, "sql"); err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		logging.Info().Str("name", name).Str("dir", dir).Msg("migration created")
		return nil
	}

	dsn := databaseDSN()
	pool, err := postgres.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		if err := goose.UpContext(ctx, db, dir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		logging.Info().Str("db", config.RedactDSN(dsn)).Msg("migrations applied")
	case "down":
		if err := goose.DownContext(ctx, db, dir); err != nil {
			return fmt.Errorf("roll back migration: %w", err)
		}
		logging.Info().Msg("migration rolled back")
	case "status":
		if err := goose.StatusContext(ctx, db, dir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	case "version":
		v, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("migration version: %w", err)
		}
		logging.Info().Int64("version", v).Msg("current schema version")
	}
	return nil
}
