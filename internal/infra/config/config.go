// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	OMDb    OMDbConfig    `yaml:"omdb"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Storage StorageConfig `yaml:"storage"`
	Mood    MoodConfig    `yaml:"mood"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr" default:":8080"`
}

// LoggingConfig represents logger configuration.
type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
	File  string `yaml:"file"`
}

// OMDbConfig represents OMDb API configuration.
type OMDbConfig struct {
	APIKey  string `yaml:"api_key" validate:"required"`
	BaseURL string `yaml:"base_url" default:"https://www.omdbapi.com/"`
}

// GeminiConfig represents Gemini API configuration. The API key is
// optional; mood search degrades to the offline provider without it.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model" default:"gemini-1.5-flash"`
}

// StorageConfig represents watchlist persistence configuration.
type StorageConfig struct {
	Path string `yaml:"path" default:"watchlist.db"`
}

// MoodConfig represents mood keyword extraction configuration.
type MoodConfig struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents a single mood provider configuration.
type ProviderConfig struct {
	Type        string         `yaml:"type" validate:"required"`
	DisplayName string         `yaml:"display_name" validate:"required"`
	Settings    map[string]any `yaml:"settings"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for API keys.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("OMDB_API_KEY"); v != "" {
		c.OMDb.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	for i, p := range c.Mood.Providers {
		if p.Type == "gemini" && c.Gemini.APIKey == "" {
			return errors.Newf("mood provider %d is gemini but no gemini api key is configured", i)
		}
	}

	return nil
}
