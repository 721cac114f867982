package main

import (
	"os"

	"mediatracker/internal/config"
)

func loadEnvFiles() {
	config.LoadEnvFiles()
}

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}

// databaseDSN reads DB_DSN without requiring the API server's settings.
func databaseDSN() string {
	if v := os.Getenv("DB_DSN"); v != "" {
		return v
	}
	return config.Defaults().DBDSN
}
