package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// migrationsDir returns the on-disk override, or "" to use the migrations
// embedded in the binary.
func migrationsDir() string {
	return os.Getenv("MIGRATIONS_DIR")
}

// sourceDir is where 'create' writes new migration files.
func sourceDir(backend string) string {
	if dir := migrationsDir(); dir != "" {
		return dir
	}
	return filepath.Join("internal", "store", "migrations", backend)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
