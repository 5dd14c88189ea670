package output

import "errors"

// Exit codes returned by the worklog binary. A prompt hook that sees a
// non-zero code should keep drawing the prompt.
const (
	ExitSuccess = 0
	// ExitUserError: nothing to act on, such as an empty note, a bad config
	// value or capture outside screen.
	ExitUserError = 1
	// ExitSystemError: the log or a subprocess (git, editor, screen) failed.
	ExitSystemError = 2
)

// ExitError pairs a message for the terminal with the code main exits with.
// Cause keeps the underlying I/O or exec error for errors.Is.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns Cause.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewUserError reports a request worklog cannot carry out as given.
func NewUserError(message string) *ExitError {
	return &ExitError{
		Code:    ExitUserError,
		Message: message,
	}
}

// NewSystemError reports a failure with no underlying error value, such as
// git missing from PATH.
func NewSystemError(message string) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
	}
}

// NewSystemErrorWithCause reports a log or subprocess failure. The store
// uses it for every open, read and append error on the log file.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
		Cause:   cause,
	}
}

// GetExitCode maps err to a process exit code. Errors that are not
// ExitErrors, such as cobra's argument errors, count as user errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitUserError
}
