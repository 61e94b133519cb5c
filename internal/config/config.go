package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings holds all application configuration
type Settings struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Debug       bool   `yaml:"debug"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	DatabaseURL string `yaml:"database_url"`
}

// Default returns the settings used when no config file is supplied. The
// database URL stays empty so the resolver applies its own documented
// default.
func Default() Settings {
	return Settings{
		Host:      "0.0.0.0",
		Port:      8000,
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// LoadFromFile loads settings from a YAML file
func LoadFromFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Keys absent from the file keep their defaults
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings before any component starts
func (s *Settings) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", s.Port)
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", s.LogLevel)
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", s.LogFormat)
	}
	return nil
}

// GetDatabaseURL returns the connection descriptor from the environment
func GetDatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}
