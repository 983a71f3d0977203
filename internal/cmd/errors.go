package cmd

import (
	"errors"
	"fmt"
)

// ExitCodeError makes the process exit with Code without printing
// anything. Used by exec and shell to mirror a command's exit status.
type ExitCodeError struct {
	Code int
}

// NewExitCodeError creates an ExitCodeError.
func NewExitCodeError(code int) *ExitCodeError {
	return &ExitCodeError{Code: code}
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

func isExitCode(err error) bool {
	var exitErr *ExitCodeError
	return errors.As(err, &exitErr)
}

// exitCodeFor maps an executor exit code to a process exit status. Timeouts
// and internal failures report -1, which becomes 1.
func exitCodeFor(code int) int {
	if code < 0 || code > 255 {
		return 1
	}
	return code
}
