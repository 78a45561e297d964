package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Storage
	DataDir string

	// Owner account (configured, never stored in the database)
	OwnerID       string
	OwnerPassword string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8800"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		OwnerID:       getEnv("OWNER_ID", "zqg"),
		OwnerPassword: getEnv("OWNER_PASSWORD", "happy-owner-2026"),
	}

	abs, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.DataDir = abs

	if err := os.MkdirAll(cfg.UploadDir(), 0o755); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabasePath is the sqlite file inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "community.db")
}

// UploadDir holds uploaded images, served back under /uploads.
func (c *Config) UploadDir() string {
	return filepath.Join(c.DataDir, "uploads")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
