package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// loadEnvFile loads .env from the working directory when present. Missing
// files are fine; the environment simply stays as-is.
func loadEnvFile() {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return
	}
	if err := godotenv.Load(); err != nil {
		slog.Warn("Could not load .env file", "error", err)
	}
}
