package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/faas3/faas3-cli/internal/apperr"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error()}
}

// Options carries the process environment into the command tree.
type Options struct {
	Out io.Writer
	Err io.Writer
	// Home is the user's home directory, used for the settings file and
	// keystore defaults.
	Home string
	// Lookup reads environment variables. Defaults to os.LookupEnv.
	Lookup  func(string) (string, bool)
	Version string
}

// Execute runs the faas3 command line for args. Any failure is returned as
// an *ExitError: code 2 for usage and validation problems, 1 otherwise.
func Execute(ctx context.Context, args []string, opts Options) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}

	r := &root{opts: opts}
	cmd := r.command()
	cmd.SetArgs(args)
	cmd.SetOut(opts.Out)
	cmd.SetErr(opts.Err)

	err := cmd.ExecuteContext(ctx)
	if r.app != nil {
		if cerr := r.app.Close(); cerr != nil {
			r.app.Logger().Warn("Failed to release clients.", "error", cerr)
		}
	}
	return toExitError(err)
}

// cobra reports these argument problems as plain errors.
var cobraUsagePrefixes = []string{
	"unknown command",
	"required flag",
	"accepts ",
	"requires at least",
}

func toExitError(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if apperr.IsUsage(err) {
		return usageError(err)
	}
	for _, p := range cobraUsagePrefixes {
		if strings.HasPrefix(err.Error(), p) {
			return usageError(err)
		}
	}
	return &ExitError{Code: 1, Message: err.Error()}
}
