// Package config provides configuration loading for the Montanha Viva CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the full CLI configuration.
type Config struct {
	API   APIConfig   `mapstructure:"api"`
	State StateConfig `mapstructure:"state"`
	Cache CacheConfig `mapstructure:"cache"`
	Log   LogConfig   `mapstructure:"log"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	// BaseURL is the backend root, e.g. https://api.montanhaviva.pt
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Timeout bounds every request, refresh round trips included.
	Timeout time.Duration `mapstructure:"timeout"`
}

// StateConfig configures the persisted session file.
type StateConfig struct {
	// Path of the session file. Defaults to ~/.montanha/session.json.
	Path string `mapstructure:"path"`
}

// CacheConfig configures the offline encyclopedia cache.
type CacheConfig struct {
	// Enabled turns the offline cache on. Defaults to true.
	Enabled bool `mapstructure:"enabled"`

	// Path of the cache database. Defaults to ~/.montanha/cache.db.
	Path string `mapstructure:"path"`

	// TTL is how long a cached response counts as fresh.
	TTL time.Duration `mapstructure:"ttl"`
}

// LogConfig configures diagnostic output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// SetDefaults fills in defaults for optional fields.
func (c *Config) SetDefaults() {
	if c.API.Timeout == 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.State.Path == "" {
		c.State.Path = filepath.Join(homeDir(), ".montanha", "session.json")
	}
	if c.Cache.Path == "" {
		c.Cache.Path = filepath.Join(homeDir(), ".montanha", "cache.db")
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 24 * time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

// Validate checks the configuration using struct tags.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// formatValidationErrors converts validator.ValidationErrors to user-friendly messages.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}
