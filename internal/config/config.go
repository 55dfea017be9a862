// Package config provides configuration management for msc.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/manuscript-cli/pkg/cite"
	"github.com/open-cli-collective/manuscript-cli/pkg/docx"
)

// Config holds the msc configuration.
type Config struct {
	Author    string `yaml:"author,omitempty"`
	Highlight string `yaml:"highlight,omitempty"`
	KeyFormat string `yaml:"key_format,omitempty"`
}

// Validate checks that all present fields hold known values.
func (c *Config) Validate() error {
	if c.Highlight != "" {
		hl := docx.NewHighlightConfig()
		if err := hl.Set(c.Highlight); err != nil {
			return err
		}
	}
	if c.KeyFormat != "" {
		if _, err := parseKeyFormat(c.KeyFormat); err != nil {
			return err
		}
	}
	return nil
}

// CitationFormat resolves the configured citation key format, defaulting
// to author-year-title when unset.
func (c *Config) CitationFormat() cite.KeyFormat {
	if c.KeyFormat == "" {
		return cite.FormatAuthorYearTitle
	}
	format, err := parseKeyFormat(c.KeyFormat)
	if err != nil {
		return cite.FormatAuthorYearTitle
	}
	return format
}

func parseKeyFormat(name string) (cite.KeyFormat, error) {
	switch name {
	case "author-year-title":
		return cite.FormatAuthorYearTitle, nil
	case "author-year":
		return cite.FormatAuthorYear, nil
	case "numeric":
		return cite.FormatNumeric, nil
	}
	return 0, fmt.Errorf("unknown key format %q (expected author-year-title, author-year, or numeric)", name)
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
func (c *Config) LoadFromEnv() {
	if author := os.Getenv("MSC_AUTHOR"); author != "" {
		c.Author = author
	}
	if highlight := os.Getenv("MSC_HIGHLIGHT"); highlight != "" {
		c.Highlight = highlight
	}
	if format := os.Getenv("MSC_KEY_FORMAT"); format != "" {
		c.KeyFormat = format
	}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "msc", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".msc", "config.yml")
	}

	return filepath.Join(home, ".config", "msc", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with restricted permissions (user read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
