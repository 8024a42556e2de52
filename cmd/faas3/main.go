package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/faas3/faas3-cli/internal/cli"
	"github.com/faas3/faas3-cli/internal/settings"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// main is the entrypoint for the faas3 command.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			stop()
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) (err error) {
	// A panic anywhere below is reported as a failed command instead of a
	// stack trace.
	defer func() {
		if r := recover(); r != nil {
			err = &cli.ExitError{Code: 1, Message: fmt.Sprintf("faas3 panicked: %v", r)}
		}
	}()

	if err := settings.LoadDotEnv(".env"); err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	home, herr := os.UserHomeDir()
	if herr != nil {
		slog.Warn("Could not determine the home directory.", "error", herr)
	}

	return cli.Execute(ctx, args, cli.Options{
		Out:     outW,
		Err:     errW,
		Home:    home,
		Version: version,
	})
}
