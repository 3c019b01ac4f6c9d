// Package commands wires the CLI commands.
package commands

import (
	"os"
	"path/filepath"

	"github.com/quizkit/deckhand/internal/api"
	"github.com/quizkit/deckhand/internal/core/config"
)

// Flags are the global CLI flags shared by all commands.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
}

// App holds the dependencies commands need, populated in the CLI's
// Before hook.
type App struct {
	Cfg    config.Config
	Client *api.Client
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "deckhand", "config.yml")
	}
	return "deckhand.yml"
}

// DefaultLogFile returns the default log file location.
func DefaultLogFile() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "deckhand", "deckhand.log")
	}
	return ""
}
