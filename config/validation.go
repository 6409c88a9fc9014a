package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errors []string

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		errors = append(errors, ValidationError{"SERVER_PORT", "must be a port number between 1 and 65535"}.Error())
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.DBPath == "" {
			errors = append(errors, ValidationError{"DB_PATH", "is required for the sqlite driver"}.Error())
		}
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			errors = append(errors, ValidationError{"DB_HOST", "host and database name are required for the postgres driver"}.Error())
		}
	default:
		errors = append(errors, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)}.Error())
	}

	if cfg.SessionSecret == "" {
		errors = append(errors, ValidationError{"SESSION_SECRET", "is required"}.Error())
	}
	if cfg.Environment.IsProduction() && cfg.SessionSecret == DefaultSessionSecret {
		errors = append(errors, ValidationError{"SESSION_SECRET", "must be changed in production"}.Error())
	}

	if cfg.AuthRateLimit < 0 {
		errors = append(errors, ValidationError{"AUTH_RATE_LIMIT", "must not be negative"}.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
