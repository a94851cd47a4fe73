package config

import (
	"os"
	"strconv"

	"resframe/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Paths    PathConfig
}

// DatabaseConfig holds database connection settings. Persistence is
// optional: with no URL the application runs without a run repository.
type DatabaseConfig struct {
	URL     string
	Enabled bool
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	OpsPort string
}

// PathConfig holds file system paths
type PathConfig struct {
	ResultFile string
	ExportDir  string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:    envOr("SERVER_PORT", "8080"),
			OpsPort: envOr("OPS_PORT", "9090"),
		},
		Paths: PathConfig{
			ResultFile: os.Getenv("RESULT_FILE"),
			ExportDir:  envOr("EXPORT_DIR", "."),
		},
	}
	cfg.Database.Enabled = cfg.Database.URL != ""

	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		return nil, errors.ConfigInvalid("SERVER_PORT must be numeric: " + cfg.Server.Port)
	}
	if _, err := strconv.Atoi(cfg.Server.OpsPort); err != nil {
		return nil, errors.ConfigInvalid("OPS_PORT must be numeric: " + cfg.Server.OpsPort)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
