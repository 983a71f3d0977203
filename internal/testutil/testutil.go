// Package testutil provides shared test helpers for shellgateway tests.
package testutil

import (
	"bytes"
	"os"
	"os/exec"
	"testing"

	"github.com/Frost26/ShellGateway/internal/clog"
)

// RequireCommands skips the test unless every named program is on PATH.
func RequireCommands(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}
}

// ShortTempDir creates a temp directory under /tmp for socket files.
// Unix socket paths have a length limit (~104 chars on macOS, ~108 on Linux),
// which t.TempDir() paths can exceed.
func ShortTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("/tmp", "sg")
	if err != nil {
		t.Fatalf("os.MkdirTemp() error = %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// CaptureLogs routes the global logger into a buffer for the rest of the
// test and returns it.
func CaptureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := clog.ReplaceGlobal(clog.TestLogger(&buf))
	t.Cleanup(func() { clog.ReplaceGlobal(old) })
	return &buf
}

// IsolateHome points HOME and the XDG base directories at a fresh temp
// directory and returns it.
func IsolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home+"/.config")
	t.Setenv("XDG_STATE_HOME", home+"/.local/state")
	return home
}
