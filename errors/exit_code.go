package errors

import (
	"os/exec"

	"github.com/cockroachdb/errors"
)

// Exit codes used when no more specific code is attached to an error.
const (
	ExitCodeFailure       = 1
	ExitCodeUsage         = 2
	ExitCodeCompilerSpawn = 127
)

// exitCoder wraps an error and specifies an exit code.
type exitCoder struct {
	cause error
	code  int
}

func (e *exitCoder) Error() string {
	return e.cause.Error()
}

func (e *exitCoder) Cause() error {
	return e.cause
}

func (e *exitCoder) Unwrap() error {
	return e.cause
}

// ExitCode returns the exit code.
func (e *exitCoder) ExitCode() int {
	return e.code
}

// WithExitCode attaches an exit code to an error.
func WithExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &exitCoder{
		cause: err,
		code:  code,
	}
}

// GetExitCode extracts the exit code from an error chain.
//
// It checks, in order:
//  1. an exit code attached via WithExitCode;
//  2. the schema compiler's own exit status;
//  3. an exec.ExitError;
//  4. configuration errors map to ExitCodeUsage;
//  5. ExitCodeFailure.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var ec *exitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}

	var invErr *CompilerInvocationError
	if errors.As(err, &invErr) {
		if invErr.ExitCode > 0 {
			return invErr.ExitCode
		}
		return ExitCodeCompilerSpawn
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	if errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrNoPatterns) {
		return ExitCodeUsage
	}

	return ExitCodeFailure
}
