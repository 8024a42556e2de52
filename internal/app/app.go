package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/faas3/faas3-cli/internal/chain"
	"github.com/faas3/faas3-cli/internal/ctxlog"
	"github.com/faas3/faas3-cli/internal/faasapi"
	"github.com/faas3/faas3-cli/internal/settings"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger   *slog.Logger
	settings *settings.Settings
	cfg      *Config
	api      *faasapi.Client

	// rpc is dialled on first use; most commands never touch the chain.
	rpc *chain.Client
}

// NewApp is the constructor for the main application. Diagnostics are
// written to logW; the shared API client is created here and released by
// Close.
func NewApp(logW io.Writer, cfg *Config) *App {
	s := cfg.Settings
	logger := newLogger(s.Log.Level, s.Log.Format, logW)
	logger.Debug("Logger configured successfully.")

	api := faasapi.New(faasapi.Config{
		BaseURL:    s.API.BaseURL,
		Timeout:    s.API.Timeout,
		HTTPClient: cfg.HTTPClient,
		Logger:     logger,
	})
	logger.Debug("API client created.", "base_url", s.API.BaseURL, "timeout", s.API.Timeout)

	return &App{
		logger:   logger,
		settings: s,
		cfg:      cfg,
		api:      api,
	}
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Settings returns the resolved settings the app was built with.
func (a *App) Settings() *settings.Settings {
	return a.settings
}

// Close releases the API client and, if it was dialled, the chain client.
func (a *App) Close() error {
	var errs []error
	if err := a.api.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.rpc != nil {
		if err := a.rpc.Close(); err != nil {
			errs = append(errs, err)
		}
		a.rpc = nil
	}
	a.logger.Debug("App closed.")
	return errors.Join(errs...)
}

func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

func (a *App) chainRPC() *chain.Client {
	if a.rpc == nil {
		a.logger.Debug("Dialling chain node.", "rpc_url", a.settings.Chain.RPCURL)
		a.rpc = chain.Dial(a.settings.Chain.RPCURL, a.cfg.HTTPClient)
	}
	return a.rpc
}
