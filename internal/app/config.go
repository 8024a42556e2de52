package app

import (
	"fmt"
	"net/http"

	"github.com/faas3/faas3-cli/internal/apperr"
	"github.com/faas3/faas3-cli/internal/settings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Settings *settings.Settings

	// HTTPClient, when set, is used by both the API and chain clients.
	HTTPClient *http.Client
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Settings == nil {
		return nil, fmt.Errorf("%w: settings are required", apperr.ErrValidation)
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
