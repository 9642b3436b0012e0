package cli

import (
	"errors"
	"fmt"

	"vidlearn-hq/confstore/pkg/config"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitInvalid    = 2
	ExitParseError = 3
	ExitLookup     = 4
)

// ConfigError reports a misconfigured command invocation, such as
// conflicting or malformed flags.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitError carries an exit code for a failure that has already been
// reported to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var (
		verr *config.ValidationError
		perr *config.ParseError
	)
	switch {
	case errors.As(err, &verr):
		return ExitInvalid
	case errors.As(err, &perr):
		return ExitParseError
	case errors.Is(err, config.ErrKeyNotFound), errors.Is(err, config.ErrTypeMismatch):
		return ExitLookup
	default:
		return ExitFailure
	}
}
