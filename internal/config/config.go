package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds portal settings. Values come from an optional YAML file,
// overridden by environment variables (a .env file is loaded by the root
// command before this runs).
type Config struct {
	CatalogURL     string `yaml:"catalog_url"`
	Port           string `yaml:"port"`
	PageSize       int    `yaml:"page_size"`
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	IdentityDBPath string `yaml:"identity_db"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CatalogURL:     "http://localhost:8080",
		Port:           "8888",
		PageSize:       10,
		Provider:       "ollama",
		IdentityDBPath: "portal-identity.db",
	}
}

// Load reads configuration from path when it exists and applies
// environment overrides. A missing file is not an error; the defaults
// apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("page_size must be positive, got %d", cfg.PageSize)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORTAL_CATALOG_URL"); v != "" {
		c.CatalogURL = v
	}
	if v := os.Getenv("PORTAL_PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("PORTAL_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PageSize = n
		}
	}
	if v := os.Getenv("ANALYSIS_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("ANALYSIS_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("PORTAL_IDENTITY_DB"); v != "" {
		c.IdentityDBPath = v
	}
}
