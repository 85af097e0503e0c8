package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	Env          string
	WebhookURL   string
	SnapshotPath string
}

// LoadConfig reads the .env file and returns a Config struct.
func LoadConfig() *Config {
	// The .env file might not exist in production, which is fine.
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on system env variables")
	}

	return &Config{
		Port:         getEnv("PORT", "3000"),
		Env:          getEnv("ENV", "development"),
		WebhookURL:   getEnv("WEBHOOK_URL", ""),
		SnapshotPath: getEnv("SNAPSHOT_PATH", ""),
	}
}

// Helper to get env with a default fallback.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
