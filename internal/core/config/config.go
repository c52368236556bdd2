package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	WebhookURL    string
	WebhookSecret string
	DraftDBPath   string
	FaultRate     float64
	Env           string
}

// LoadConfig reads the .env file, then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, relying on system env variables")
	}

	return &Config{
		Port:          getEnv("PORT", "3000"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),
		WebhookSecret: getEnv("WEBHOOK_SECRET", "default_insecure_key"),
		DraftDBPath:   getEnv("DRAFT_DB_PATH", "drafts.db"),
		FaultRate:     getFloat("FAULT_RATE", 0),
		Env:           getEnv("ENV", "development"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Warn("invalid float in env, using fallback", "key", key, "value", value)
		return fallback
	}
	return f
}
