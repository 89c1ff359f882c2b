package cmd

import (
	"fmt"

	appconfig "github.com/pipeboard/pipeboard/internal/config"
	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/logging"
	"github.com/pipeboard/pipeboard/internal/remote"
)

// loadConfig reads and validates the effective configuration.
func loadConfig() (*appconfig.Config, error) {
	cfg, err := appconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// viewerScope returns the scope deals are fetched for.
func viewerScope(cfg *appconfig.Config) deal.Scope {
	return deal.Scope{UserID: cfg.Viewer.UserID, Role: deal.Role(cfg.Viewer.Role)}
}

// newClient returns the system of record client for cfg.
func newClient(cfg *appconfig.Config) *remote.HTTPClient {
	return remote.NewHTTPClient(cfg.API.BaseURL, cfg.API.Timeout, viewerScope(cfg))
}

// newFileLogger returns the logger of a command that owns the terminal:
// it writes to the log directory, or nowhere when logging is disabled.
func newFileLogger(cfg *appconfig.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLogger(cfg.Logging.ResolveDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

// newStderrLogger returns the logger of a command that prints to the
// terminal.
func newStderrLogger(cfg *appconfig.Config) (*logging.Logger, error) {
	return logging.NewLogger("", cfg.Logging.Level, logging.RotationConfig{})
}
