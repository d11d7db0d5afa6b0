package config

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}
	getOptionalEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName:             getEnv("DB_NAME"),
		Port:               getEnv("PORT"),
		LogLevel:           getOptionalEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitList(getOptionalEnv("CORS_ALLOWED_ORIGINS", "*")),
		Slack: SlackConfig{
			Token:         getOptionalEnv("SLACK_BOT_TOKEN", ""),
			ChannelID:     getOptionalEnv("SLACK_CHANNEL_ID", ""),
			SigningSecret: getOptionalEnv("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getOptionalEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getOptionalEnv("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: getOptionalEnv("GCP_PROJECT", ""),
	}
	return cfg
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
