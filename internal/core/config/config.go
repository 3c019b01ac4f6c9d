// Package config handles configuration loading and validation for
// deckhand.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quizkit/deckhand/internal/api"
)

// Config holds the application configuration.
type Config struct {
	Server Server `yaml:"server"`
	Retry  Retry  `yaml:"retry"`
	Review Review `yaml:"review"`
}

// Server describes the card service endpoint.
type Server struct {
	BaseURL string `yaml:"base_url"`
	// Token may reference an environment variable with $NAME or ${NAME};
	// it is expanded at load time so the secret never sits in the file.
	Token string `yaml:"token"`
}

// Retry holds the attempt budgets for the card-service client.
type Retry struct {
	ReadAttempts  int `yaml:"read_attempts"`
	WriteAttempts int `yaml:"write_attempts"`
}

// Review holds review-session defaults.
type Review struct {
	DefaultDeck string `yaml:"default_deck"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: Server{
			BaseURL: "http://localhost:8787",
		},
		Retry: Retry{
			ReadAttempts:  api.DefaultReadAttempts,
			WriteAttempts: api.DefaultWriteAttempts,
		},
	}
}

// Load reads the config file at path, applying defaults for anything
// unset. A missing file is not an error; defaults are used.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Server.Token = os.ExpandEnv(cfg.Server.Token)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
