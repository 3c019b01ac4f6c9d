package config

import (
	"fmt"
	"net/url"

	"github.com/hay-kot/criterio"
)

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("server.base_url", c.Server.BaseURL, validBaseURL),
		criterio.Run("retry.read_attempts", c.Retry.ReadAttempts, atLeastOne),
		criterio.Run("retry.write_attempts", c.Retry.WriteAttempts, atLeastOne),
	)
}

func validBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func atLeastOne(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1, got %d", n)
	}
	return nil
}
