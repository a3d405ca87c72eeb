package config

import (
	"fmt"
	"os"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks that the configuration is usable in the current
// environment. Production refuses to start without a JWT secret; development
// and tests get a weak default so local runs stay frictionless.
func Validate(cfg *Config) error {
	if cfg.JWTSecret == "" {
		if IsProduction() {
			return ValidationError{Field: "JWTSecret", Message: "required in production"}
		}
		cfg.JWTSecret = "dev-secret"
	}

	if cfg.DBPassword == "" && IsProduction() {
		return ValidationError{Field: "DBPassword", Message: "required in production"}
	}

	if cfg.FontPath != "" {
		if _, err := os.Stat(cfg.FontPath); err != nil {
			return ValidationError{Field: "FontPath", Message: fmt.Sprintf("font asset not readable: %v", err)}
		}
	}

	return nil
}
