// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

// Config holds the application configuration.
type Config struct {
	ProjectsPath         string
	ViewPath             string
	DatabasePath         string
	LogPath              string
	LogLevel             string
	ExchangeRatesURL     string
	RefreshInterval      time.Duration
	HTTPTimeout          time.Duration
	HistoryRetention     time.Duration
	MaxConcurrentFetches int
	Notifications        bool
	Projects             []models.Project
}

// Default values
const (
	defaultExchangeRatesURL     = "https://api.exchangerate-api.com/v4/latest/USD"
	defaultHTTPTimeout          = 30 * time.Second
	defaultHistoryRetention     = 2160 * time.Hour
	defaultMaxConcurrentFetches = 4
	defaultLogLevel             = "info"
	appDirName                  = "revenue-dashboard"
)

// Load reads configuration from .env files and environment variables, then
// loads the projects file it points to.
func Load() (*Config, error) {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	projectsPath := getEnvString("PROJECTS_CONFIG_PATH", getDefaultProjectsPath())
	dbPath := getEnvString("DATABASE_PATH", getDefaultDatabasePath())

	cfg := &Config{
		ProjectsPath:         projectsPath,
		ViewPath:             getEnvString("VIEW_PATH", filepath.Join(filepath.Dir(projectsPath), "view.json")),
		DatabasePath:         dbPath,
		LogPath:              getEnvString("LOG_PATH", filepath.Join(filepath.Dir(dbPath), "revenue-dashboard.log")),
		LogLevel:             strings.ToLower(getEnvString("LOG_LEVEL", defaultLogLevel)),
		ExchangeRatesURL:     getEnvString("EXCHANGE_RATES_URL", defaultExchangeRatesURL),
		HTTPTimeout:          getEnvDuration("HTTP_TIMEOUT", defaultHTTPTimeout),
		HistoryRetention:     getEnvDuration("HISTORY_RETENTION", defaultHistoryRetention),
		MaxConcurrentFetches: getEnvInt("MAX_CONCURRENT_FETCHES", defaultMaxConcurrentFetches),
		Notifications:        getEnvBool("NOTIFICATIONS", true),
	}

	file, err := LoadProjects(cfg.ProjectsPath)
	if err != nil {
		return nil, err
	}
	cfg.Projects = file.Projects
	cfg.RefreshInterval = getEnvDuration("REFRESH_INTERVAL", file.PollInterval)

	if cfg.MaxConcurrentFetches <= 0 {
		cfg.MaxConcurrentFetches = defaultMaxConcurrentFetches
	}

	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := ensureDir(filepath.Dir(cfg.ViewPath)); err != nil {
		return nil, fmt.Errorf("failed to create view state directory: %w", err)
	}

	return cfg, nil
}

// ConfigDir returns ~/.config/revenue-dashboard, or "." without a home dir.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", appDirName)
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	cwd, cwdErr := os.Getwd()
	if cwdErr == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appDirName, ".env"))
	}

	// Parent directories (useful for development)
	if cwdErr == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultProjectsPath prefers ./config.json and falls back to the
// config directory.
func getDefaultProjectsPath() string {
	if _, err := os.Stat("config.json"); err == nil {
		return "config.json"
	}
	return filepath.Join(ConfigDir(), "config.json")
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	return filepath.Join(ConfigDir(), "history.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
