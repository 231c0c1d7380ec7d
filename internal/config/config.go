package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// Database settings. DatabaseType selects the dialect: sqlite (default),
	// postgres or mysql. SQLite uses DatabasePath, the others DatabaseURL.
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	SessionDuration time.Duration
	CSRFSecret      string

	// Google sign-in
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL the app is served from, used for OAuth redirects and
	// invitation links
	AppBaseURL string

	// SES email settings. Email sending is disabled when FromAddress is empty.
	AWSRegion        string
	EmailFromAddress string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	return &Config{
		ServerPort:         getEnv("PORT", "8080"),
		DatabaseType:       getEnv("DB_TYPE", "sqlite"),
		DatabasePath:       getEnv("DB_PATH", "./mathquest.db"),
		DatabaseURL:        getEnv("DB_URL", ""),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "./migrations"),
		SessionDuration:    getDurationEnv("SESSION_DURATION", 24*time.Hour),
		CSRFSecret:         getEnv("CSRF_SECRET", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		AppBaseURL:         getEnv("APP_BASE_URL", "http://localhost:8080"),
		AWSRegion:          getEnv("AWS_REGION", "eu-west-1"),
		EmailFromAddress:   getEnv("EMAIL_FROM_ADDRESS", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv reads a duration environment variable or returns a default
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using default", key, value)
		return defaultValue
	}
	return d
}
