// Package apperr defines the error kinds shared by every layer of the client.
// Callers wrap a cause with one of the sentinels so the kind survives
// propagation and can be matched with errors.Is.
package apperr

import "errors"

var (
	// ErrFileSystem indicates a local directory or file could not be created, read or written.
	ErrFileSystem = errors.New("file system error")

	// ErrAlreadyExists is returned when a function directory is already present.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound signals a missing local file or a missing remote record.
	ErrNotFound = errors.New("not found")

	// ErrParse indicates malformed TOML, HCL or JSON input.
	ErrParse = errors.New("parse error")

	// ErrValidation signals input that is well formed but not acceptable.
	ErrValidation = errors.New("validation error")

	// ErrNetwork indicates a transport-level HTTP or RPC failure.
	ErrNetwork = errors.New("network error")

	// ErrDecode means a response body did not match the expected schema.
	ErrDecode = errors.New("decode error")

	// ErrRemote means the remote service answered but reported a failure.
	ErrRemote = errors.New("remote service error")

	// ErrChain indicates an on-chain object or transaction was missing or malformed.
	ErrChain = errors.New("chain error")

	// ErrAssertion is returned when on-chain content and runtime content differ.
	ErrAssertion = errors.New("assertion failure")

	// ErrKeystore indicates the signing keystore could not be used.
	ErrKeystore = errors.New("keystore error")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrAlreadyExists, "already_exists"},
	{ErrNotFound, "not_found"},
	{ErrFileSystem, "filesystem"},
	{ErrParse, "parse"},
	{ErrValidation, "validation"},
	{ErrNetwork, "network"},
	{ErrDecode, "decode"},
	{ErrRemote, "remote"},
	{ErrChain, "chain"},
	{ErrAssertion, "assertion"},
	{ErrKeystore, "keystore"},
}

// Kind returns a short label for the first known kind wrapped by err, or
// "unknown" when err carries none of them.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}

// IsUsage reports whether err was caused by the caller's input rather than
// by the environment.
func IsUsage(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrAlreadyExists)
}
