package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8787", cfg.Server.BaseURL)
	assert.Equal(t, 3, cfg.Retry.ReadAttempts)
	assert.Equal(t, 2, cfg.Retry.WriteAttempts)
	assert.Empty(t, cfg.Review.DefaultDeck)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: https://cards.example.com
  token: abc123
retry:
  read_attempts: 5
review:
  default_deck: verbs
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://cards.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "abc123", cfg.Server.Token)
	assert.Equal(t, 5, cfg.Retry.ReadAttempts)
	assert.Equal(t, 2, cfg.Retry.WriteAttempts, "unset fields keep their defaults")
	assert.Equal(t, "verbs", cfg.Review.DefaultDeck)
}

func TestLoadExpandsTokenEnv(t *testing.T) {
	t.Setenv("DECKHAND_TEST_TOKEN", "secret-from-env")

	path := writeConfig(t, `
server:
  token: ${DECKHAND_TEST_TOKEN}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-from-env", cfg.Server.Token)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string // substring, empty means valid
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty base url",
			mutate:  func(c *Config) { c.Server.BaseURL = "" },
			wantErr: "server.base_url",
		},
		{
			name:    "wrong scheme",
			mutate:  func(c *Config) { c.Server.BaseURL = "ftp://cards.example.com" },
			wantErr: "server.base_url",
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.Server.BaseURL = "http://" },
			wantErr: "server.base_url",
		},
		{
			name:    "zero read attempts",
			mutate:  func(c *Config) { c.Retry.ReadAttempts = 0 },
			wantErr: "retry.read_attempts",
		},
		{
			name:    "negative write attempts",
			mutate:  func(c *Config) { c.Retry.WriteAttempts = -1 },
			wantErr: "retry.write_attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: not-a-url
`)

	_, err := Load(path)
	assert.Error(t, err)
}
