// Package term writes user-facing CLI output for shellgateway. Diagnostic
// logging goes through internal/clog instead.
//
// Print, Printf and Println write to stdout and are suppressed by --silent.
// Warn and Error write to stderr and are never suppressed. Command output
// relayed by `exec` and `shell` is written with Print so it stays
// byte-for-byte what the executor produced.
package term

import (
	"fmt"
	"io"
	"os"
	"sync"

	xterm "golang.org/x/term"
)

var (
	mu     sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	silent bool
)

// SetSilent enables or disables silent mode.
func SetSilent(s bool) {
	mu.Lock()
	defer mu.Unlock()
	silent = s
}

// SetOutput sets the stdout writer. nil restores os.Stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	stdout = w
}

// SetErrOutput sets the stderr writer. nil restores os.Stderr.
func SetErrOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	stderr = w
}

// Print writes to stdout unless silent.
func Print(a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !silent {
		_, _ = fmt.Fprint(stdout, a...)
	}
}

// Printf writes formatted output to stdout unless silent.
func Printf(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !silent {
		_, _ = fmt.Fprintf(stdout, format, a...)
	}
}

// Println writes to stdout with a trailing newline unless silent.
func Println(a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !silent {
		_, _ = fmt.Fprintln(stdout, a...)
	}
}

// Warn writes "Warning: <msg>" to stderr.
func Warn(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = fmt.Fprintf(stderr, "Warning: %s\n", fmt.Sprintf(format, a...))
}

// Error writes "Error: <msg>" to stderr.
func Error(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = fmt.Fprintf(stderr, "Error: %s\n", fmt.Sprintf(format, a...))
}

// Stdout returns the stdout writer, or io.Discard when silent.
func Stdout() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	if silent {
		return io.Discard
	}
	return stdout
}

// IsTerminal reports whether r is an interactive terminal. Readers that are
// not *os.File, such as test buffers, never are.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return xterm.IsTerminal(int(f.Fd()))
}

// Reset restores the default writers and turns silent mode off.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	stdout = os.Stdout
	stderr = os.Stderr
	silent = false
}
