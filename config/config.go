package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Event configuration
	EventTimezone string
	WeeklyLunches int
	WeeklyDinners int
	WeeklyDrinks  int

	// AI assistant configuration
	AIAPIKey string
	AIAPIURL string
	AIModel  string
}

// Allowance defaults restored at every window roll.
const (
	DefaultWeeklyLunches = 5
	DefaultWeeklyDinners = 5
	DefaultWeeklyDrinks  = 15
)

// LoadConfig creates a new Config instance from environment variables.
// In development a local .env file is loaded first so the API can run
// outside docker-compose without exporting anything by hand.
func LoadConfig() (*Config, error) {
	if IsDevelopment() {
		// Missing .env is fine; real env vars still apply.
		_ = godotenv.Load()
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "amani"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "amani"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisURL:      os.Getenv("REDIS_URL"),

		EventTimezone: getEnv("EVENT_TIMEZONE", "UTC"),
		WeeklyLunches: getEnvInt("WEEKLY_LUNCHES", DefaultWeeklyLunches),
		WeeklyDinners: getEnvInt("WEEKLY_DINNERS", DefaultWeeklyDinners),
		WeeklyDrinks:  getEnvInt("WEEKLY_DRINKS", DefaultWeeklyDrinks),

		AIAPIKey: os.Getenv("AI_API_KEY"),
		AIAPIURL: getEnv("AI_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
		AIModel:  getEnv("AI_MODEL", "openai/gpt-oss-20b"),
	}

	if db := os.Getenv("REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", db, err)
		}
		cfg.RedisDB = n
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
