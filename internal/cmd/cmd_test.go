package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Frost26/ShellGateway/internal/term"
	"github.com/Frost26/ShellGateway/internal/testutil"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI runs the root command with isolated config, state and home
// directories, and fresh flag values.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	testutil.IsolateHome(t)
	return runCLIWithEnv(t, stdin, args...)
}

// runCLIWithEnv is runCLI without resetting the environment.
func runCLIWithEnv(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := runRoot(t, strings.NewReader(stdin), &stdout, &stderr, args...)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// runRoot resets flag values, wires the given streams and runs the root
// command.
func runRoot(t *testing.T, in io.Reader, out, errOut io.Writer, args ...string) error {
	t.Helper()
	configPath, debug, logFile, silent = "", false, "", false
	execDir, execJSON, serveSocket = "", false, ""
	for _, name := range []string{"help", "version"} {
		if f := rootCmd.Flags().Lookup(name); f != nil {
			_ = f.Value.Set("false")
		}
	}

	term.SetOutput(out)
	term.SetErrOutput(errOut)
	t.Cleanup(term.Reset)

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)
	return Execute()
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitCodeError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want ExitCodeError", err)
	}
	return exitErr.Code
}

func TestRootCommand_Help(t *testing.T) {
	r := runCLI(t, "", "--help")
	if r.err != nil {
		t.Fatalf("--help returned error: %v", r.err)
	}
	for _, want := range []string{"shellgateway", "process group", "Available Commands:", "serve", "exec", "shell", "config"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("help output missing %q\nGot: %s", want, r.stdout)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	r := runCLI(t, "", "--version")
	if r.err != nil {
		t.Fatalf("--version returned error: %v", r.err)
	}
	if !strings.HasPrefix(r.stdout, "shellgateway ") {
		t.Errorf("version output = %q", r.stdout)
	}
}

func TestRootCommand_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("executor:\n  nope: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := runCLI(t, "", "--config", path, "config", "show")
	if r.err == nil {
		t.Fatal("expected error for unknown config field")
	}
	if !strings.Contains(r.stderr, "Error: ") {
		t.Errorf("stderr = %q, want printed error", r.stderr)
	}
}

func TestExitCodeError(t *testing.T) {
	err := NewExitCodeError(42)
	if err.Error() != "exit code 42" {
		t.Errorf("Error() = %q", err.Error())
	}
	wrapped := errors.Join(errors.New("wrapper"), err)
	if !isExitCode(wrapped) {
		t.Error("isExitCode(wrapped) = false")
	}
	if isExitCode(errors.New("plain")) {
		t.Error("isExitCode(plain) = true")
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := map[int]int{0: 0, 1: 1, 127: 127, -1: 1, 300: 1}
	for in, want := range tests {
		if got := exitCodeFor(in); got != want {
			t.Errorf("exitCodeFor(%d) = %d, want %d", in, got, want)
		}
	}
}
