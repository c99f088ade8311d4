// Package config provides configuration management for the cutroom engine.
// Configuration is loaded from environment variables with sensible
// defaults; a local .env file is honored outside production.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Default values
	DefaultPort          = 8790
	DefaultLogLevel      = "info"
	DefaultDataDir       = ".cutroom"
	DefaultAutosaveQuiet = 3 * time.Second
	DefaultAllowedOrigin = "http://localhost:5173"

	// Environment variable names
	EnvPort          = "CUTROOM_PORT"
	EnvLogLevel      = "CUTROOM_LOG_LEVEL"
	EnvDataDir       = "CUTROOM_DATA_DIR"
	EnvAutosaveQuiet = "CUTROOM_AUTOSAVE_QUIET"
	EnvAllowedOrigin = "CUTROOM_ALLOWED_ORIGIN"
	EnvAppEnv        = "CUTROOM_ENV"

	// Database filename
	DBFilename = "cutroom.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	AutosaveQuiet() time.Duration
	AllowedOrigin() string
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port          int
	logLevel      string
	dataDir       string
	autosaveQuiet time.Duration
	allowedOrigin string
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	// Production injects env vars through infra; .env is a dev convenience.
	if os.Getenv(EnvAppEnv) != "production" {
		godotenv.Load()
	}

	cfg := &EnvConfig{
		port:          DefaultPort,
		logLevel:      DefaultLogLevel,
		dataDir:       defaultDataDir(),
		autosaveQuiet: DefaultAutosaveQuiet,
		allowedOrigin: DefaultAllowedOrigin,
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if q := os.Getenv(EnvAutosaveQuiet); q != "" {
		quiet, err := time.ParseDuration(q)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvAutosaveQuiet, err)
		}
		if quiet <= 0 {
			return nil, fmt.Errorf("invalid %s: must be positive", EnvAutosaveQuiet)
		}
		cfg.autosaveQuiet = quiet
	}

	if origin := os.Getenv(EnvAllowedOrigin); origin != "" {
		cfg.allowedOrigin = origin
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// AutosaveQuiet returns the debounce period before a dirty project saves
func (c *EnvConfig) AutosaveQuiet() time.Duration {
	return c.autosaveQuiet
}

// AllowedOrigin returns the browser origin permitted by CORS
func (c *EnvConfig) AllowedOrigin() string {
	return c.allowedOrigin
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
