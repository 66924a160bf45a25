package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable for the current environment.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.ServerPort == "" {
		errs = append(errs, "SERVER_PORT must not be empty")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
		errs = append(errs, "DB_HOST, DB_PORT and DB_NAME are required")
	}
	if IsProduction() && cfg.DBPassword == "" {
		errs = append(errs, "DB_PASSWORD is required in production")
	}

	if _, err := time.LoadLocation(cfg.EventTimezone); err != nil {
		errs = append(errs, fmt.Sprintf("EVENT_TIMEZONE %q is not a valid IANA timezone", cfg.EventTimezone))
	}

	if cfg.WeeklyLunches < 1 {
		errs = append(errs, "WEEKLY_LUNCHES must be at least 1")
	}
	if cfg.WeeklyDinners < 1 {
		errs = append(errs, "WEEKLY_DINNERS must be at least 1")
	}
	if cfg.WeeklyDrinks < 1 {
		errs = append(errs, "WEEKLY_DRINKS must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}

// EventLocation resolves the timezone used for calendar-day comparisons
// (daily meal caps). Validation guarantees this cannot fail at runtime.
func (c *Config) EventLocation() *time.Location {
	loc, err := time.LoadLocation(c.EventTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
