package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/devilmonastery/openproof/internal/client"
)

// Process exit codes. Each failure kind gets its own code so scripts can
// tell them apart without parsing stderr.
const (
	ExitOK                = 0
	ExitError             = 1
	ExitUsage             = 2
	ExitNoCredential      = 3
	ExitFileNotFound      = 4
	ExitRemoteRejected    = 5
	ExitTransport         = 6
	ExitTimeout           = 7
	ExitMalformedResponse = 8
)

// ErrFileNotFound is returned when a local article file does not exist.
var ErrFileNotFound = errors.New("file not found")

// UsageError reports a malformed command line.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var usageErr *UsageError
	var httpErr *client.HTTPError
	var transportErr *client.TransportError
	var missingErr *client.MissingFieldError

	switch {
	case errors.As(err, &usageErr):
		return ExitUsage
	case errors.Is(err, client.ErrNoToken):
		return ExitNoCredential
	case errors.Is(err, ErrFileNotFound):
		return ExitFileNotFound
	case errors.As(err, &httpErr):
		return ExitRemoteRejected
	case errors.As(err, &transportErr):
		if transportErr.Timeout() {
			return ExitTimeout
		}
		return ExitTransport
	case errors.As(err, &missingErr):
		return ExitMalformedResponse
	default:
		return ExitError
	}
}

// usageArgs wraps a positional-args validator so its failures map to
// ExitUsage.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}
