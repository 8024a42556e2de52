package settings

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/faas3/faas3-cli/internal/apperr"
)

const (
	DefaultAPIBaseURL = "https://faas3.deno.dev"
	DefaultRPCURL     = "https://fullnode.devnet.sui.io:443"
	DefaultModule     = "faas_nft"
	DefaultFunction   = "mint"
	DefaultGasBudget  = 10_000_000
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// Environment variables that override the settings file.
const (
	EnvAPIURL    = "FAAS3_API_URL"
	EnvRPCURL    = "FAAS3_RPC_URL"
	EnvPackageID = "FAAS3_PACKAGE_ID"
	EnvKeystore  = "FAAS3_KEYSTORE"
	EnvLogLevel  = "FAAS3_LOG_LEVEL"
)

// Settings is the resolved client configuration for one process run.
type Settings struct {
	API   API
	Chain Chain
	Log   Log
}

// API configures the FaaS HTTP API.
type API struct {
	BaseURL string
	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration
}

// Chain configures the legacy Sui path used by verify and deploy --mint.
type Chain struct {
	RPCURL    string
	PackageID string
	Module    string
	Function  string
	GasBudget uint64
	Keystore  string
}

// Log configures the process logger.
type Log struct {
	Level  string
	Format string
}

// Default returns the built-in settings. home is used to place the Sui
// keystore; an empty home leaves the keystore path relative.
func Default(home string) *Settings {
	return &Settings{
		API: API{BaseURL: DefaultAPIBaseURL},
		Chain: Chain{
			RPCURL:    DefaultRPCURL,
			Module:    DefaultModule,
			Function:  DefaultFunction,
			GasBudget: DefaultGasBudget,
			Keystore:  defaultKeystore(home),
		},
		Log: Log{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		s.API.BaseURL = v
	}
	if v, ok := lookup(EnvRPCURL); ok && v != "" {
		s.Chain.RPCURL = v
	}
	if v, ok := lookup(EnvPackageID); ok && v != "" {
		s.Chain.PackageID = v
	}
	if v, ok := lookup(EnvKeystore); ok && v != "" {
		s.Chain.Keystore = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		s.Log.Level = strings.ToLower(v)
	}
}

// Validate checks that the resolved settings are usable.
func (s *Settings) Validate() error {
	if err := validateURL("api.base_url", s.API.BaseURL); err != nil {
		return err
	}
	if err := validateURL("chain.rpc_url", s.Chain.RPCURL); err != nil {
		return err
	}
	if s.API.Timeout < 0 {
		return fmt.Errorf("%w: api.timeout must not be negative", apperr.ErrValidation)
	}
	if !ValidLogLevel(s.Log.Level) {
		return fmt.Errorf("%w: invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", apperr.ErrValidation, s.Log.Level)
	}
	if !ValidLogFormat(s.Log.Format) {
		return fmt.Errorf("%w: invalid log format %q: must be 'text' or 'json'", apperr.ErrValidation, s.Log.Format)
	}
	return nil
}

// ValidLogLevel reports whether level is one the logger understands.
func ValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// ValidLogFormat reports whether format is 'text' or 'json'.
func ValidLogFormat(format string) bool {
	return format == "text" || format == "json"
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperr.ErrValidation, field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %s %q must be an http or https URL", apperr.ErrValidation, field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %s %q has no host", apperr.ErrValidation, field, raw)
	}
	return nil
}
