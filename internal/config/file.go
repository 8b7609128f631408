package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config for YAML-based deployments. Values present in the
// file override the environment.
type FileConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Queue    QueueConfig    `yaml:"queue"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port  int  `yaml:"port"`
	Debug bool `yaml:"debug"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

// QueueConfig holds RabbitMQ settings
type QueueConfig struct {
	URL string `yaml:"url"`
}

// CatalogConfig holds external catalog settings
type CatalogConfig struct {
	URL           string `yaml:"url"`
	ImportOnStart bool   `yaml:"import_on_start"`
}

// LoadFile applies overrides from a YAML file onto cfg. A missing file is not
// an error.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if fc.Server.Port != 0 {
		cfg.Port = fc.Server.Port
	}
	if fc.Server.Debug {
		cfg.Debug = true
	}
	if fc.Database.Driver != "" {
		cfg.DatabaseDriver = fc.Database.Driver
	}
	if fc.Database.URL != "" {
		cfg.DatabaseURL = fc.Database.URL
	}
	if fc.Queue.URL != "" {
		cfg.RabbitMQURL = fc.Queue.URL
	}
	if fc.Catalog.URL != "" {
		cfg.CatalogURL = fc.Catalog.URL
	}
	if fc.Catalog.ImportOnStart {
		cfg.ImportOnStart = true
	}

	if cfg.DatabaseDriver != "postgres" && cfg.DatabaseDriver != "sqlite" {
		return fmt.Errorf("database driver must be postgres or sqlite, got %q", cfg.DatabaseDriver)
	}

	return nil
}
