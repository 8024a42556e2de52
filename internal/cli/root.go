package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/faas3/faas3-cli/internal/app"
	"github.com/faas3/faas3-cli/internal/settings"
	"github.com/spf13/cobra"
)

// root holds the global flags and the lazily built App.
type root struct {
	opts Options

	settingsPath string
	apiURL       string
	logLevel     string
	logFormat    string

	app *app.App
}

func (r *root) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faas3",
		Short: "Create, deploy and call functions on the faas3 runtime",
		Long: `faas3 - function as a service over a blockchain.

Scaffold a function project, upload it to the faas3 runtime, call it, and
check that the code the runtime serves matches what was recorded on chain.`,
		Version:       r.opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return r.validateLogFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&r.settingsPath, "settings", "", "Path to the settings file (default ~/.faas3/settings.hcl).")
	pf.StringVar(&r.apiURL, "api-url", "", "Base URL of the faas3 API (overrides settings and "+settings.EnvAPIURL+").")
	pf.StringVar(&r.logLevel, "log-level", settings.DefaultLogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&r.logFormat, "log-format", settings.DefaultLogFormat, "Log output format. Options: 'text' or 'json'.")

	cmd.AddCommand(
		r.createCommand(),
		r.deployCommand(),
		r.runCommand(),
		r.callCommand(),
		r.listCommand(),
		r.infoCommand(),
		r.verifyCommand(),
	)
	return cmd
}

func (r *root) validateLogFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("log-format") {
		r.logFormat = strings.ToLower(r.logFormat)
		if !settings.ValidLogFormat(r.logFormat) {
			return &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
		}
	}
	if flags.Changed("log-level") {
		r.logLevel = strings.ToLower(r.logLevel)
		if !settings.ValidLogLevel(r.logLevel) {
			return &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
		}
	}
	slog.Debug("CLI parameter validation complete.")
	return nil
}

// application resolves settings (flag > environment > file > default) and
// builds the App on first use.
func (r *root) application(cmd *cobra.Command) (*app.App, error) {
	if r.app != nil {
		return r.app, nil
	}

	loader := settings.NewLoader(r.opts.Home, r.opts.Lookup)
	s, err := loader.Load(cmd.Context(), r.settingsPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		s.API.BaseURL = r.apiURL
	}
	if flags.Changed("log-level") {
		s.Log.Level = r.logLevel
	}
	if flags.Changed("log-format") {
		s.Log.Format = r.logFormat
	}

	cfg, err := app.NewConfig(app.Config{Settings: s})
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	path := r.settingsPath
	if path == "" {
		path = loader.DefaultPath()
	}
	r.app = app.NewApp(r.opts.Err, cfg)
	resolved := r.app.Settings()
	r.app.Logger().Debug("Settings resolved.", "settings", path, "api", resolved.API.BaseURL, "rpc", resolved.Chain.RPCURL)
	return r.app, nil
}
