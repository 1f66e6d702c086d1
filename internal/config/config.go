package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"
	// EnvDevelopment represents the development environment.
	EnvDevelopment = "development"
)

// Speaker count bounds, mirrored from the enrollment workflow.
const (
	minSpeakers = 2
	maxSpeakers = 10
)

// Config holds all application configuration.
type Config struct {
	Env string `envconfig:"ENV" default:"development"`

	// Backend settings
	BackendURI      string        `envconfig:"BACKEND_URI" default:"http://localhost:8000"`
	BackendTimeout  time.Duration `envconfig:"BACKEND_TIMEOUT" default:"0s"`
	DefaultSpeakers int           `envconfig:"DEFAULT_SPEAKERS" default:"2"`

	// Development backend settings
	Port       string `envconfig:"PORT" default:"8000"`
	HSTSMaxAge int    `envconfig:"HSTS_MAX_AGE" default:"31536000"`

	// Logging settings
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogFile   string `envconfig:"LOG_FILE"`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	// Parse environment variables into config struct
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &config, nil
}

// Validate checks values envconfig cannot check by type alone.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.BackendURI)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("BACKEND_URI: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("BACKEND_URI %q: scheme must be http or https", c.BackendURI))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("BACKEND_URI %q: missing host", c.BackendURI))
	}

	if c.BackendTimeout < 0 {
		errs = append(errs, fmt.Errorf("BACKEND_TIMEOUT %s: must not be negative", c.BackendTimeout))
	}

	if c.DefaultSpeakers < minSpeakers || c.DefaultSpeakers > maxSpeakers {
		errs = append(errs, fmt.Errorf("DEFAULT_SPEAKERS %d: must be between %d and %d",
			c.DefaultSpeakers, minSpeakers, maxSpeakers))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q: must be text or json", c.LogFormat))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
