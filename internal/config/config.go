package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	SessionDuration time.Duration
	SecretKey       string

	// Allowed origins for the browser front-end, comma-separated in the env
	CORSOrigins []string

	// Base URL of the front-end, used in emailed links and share URLs
	AppBaseURL string

	// Email (Amazon SES); the email service is disabled when FromEmail is empty
	SESRegion    string
	SESFromEmail string
	SESFromName  string
	EmailDebug   bool

	// OAuth sign-in; a provider is disabled when its client ID/secret is empty
	GoogleClientID       string
	GoogleClientSecret   string
	OAuthRedirectBaseURL string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./studydesk.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		SessionDuration: 30 * 24 * time.Hour,
		SecretKey:       loadSecretKey(),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		AppBaseURL:  getEnv("APP_BASE_URL", "http://localhost:3000"),

		SESRegion:    getEnv("SES_REGION", "eu-west-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "StudyDesk"),
		EmailDebug:   getEnv("EMAIL_DEBUG", "") == "true",

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),
	}
}

// loadSecretKey reads SECRET_KEY or generates an ephemeral one.
// A generated key invalidates CSRF tokens and share links on restart,
// so production deployments should set SECRET_KEY explicitly.
func loadSecretKey() string {
	if key := os.Getenv("SECRET_KEY"); key != "" {
		return key
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to generate secret key: %v", err)
	}
	log.Println("Warning: SECRET_KEY not set, using an ephemeral key (tokens will not survive a restart)")
	return hex.EncodeToString(buf)
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList parses a comma-separated environment value into a slice
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
