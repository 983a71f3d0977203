//go:build unix

package executor

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Frost26/ShellGateway/internal/testutil"
)

func newTestRunner(t *testing.T) *ShellRunner {
	t.Helper()
	testutil.RequireCommands(t, "sleep", "head", "tr")
	testutil.CaptureLogs(t)
	return NewShellRunner("/bin/sh", 100*time.Millisecond, time.Second)
}

func TestShellRunner_Completed(t *testing.T) {
	r := newTestRunner(t)

	o := r.Run(context.Background(), ProcessSpec{Command: "echo Hello World; echo oops >&2", Dir: t.TempDir(), Timeout: 5 * time.Second})
	if o.Kind != OutcomeCompleted {
		t.Fatalf("Kind = %s, want completed (err %v)", o.Kind, o.Err)
	}
	if string(o.Stdout) != "Hello World\n" {
		t.Errorf("Stdout = %q", o.Stdout)
	}
	if string(o.Stderr) != "oops\n" {
		t.Errorf("Stderr = %q", o.Stderr)
	}
	if o.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", o.ExitCode)
	}
}

func TestShellRunner_ExitCode(t *testing.T) {
	r := newTestRunner(t)

	tests := []struct {
		command string
		want    int
	}{
		{"exit 3", 3},
		{"false", 1},
		{"nonexistent_command_12345", 127},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			o := r.Run(context.Background(), ProcessSpec{Command: tt.command, Timeout: 5 * time.Second})
			if o.Kind != OutcomeCompleted {
				t.Fatalf("Kind = %s, want completed", o.Kind)
			}
			if o.ExitCode != tt.want {
				t.Errorf("ExitCode = %d, want %d", o.ExitCode, tt.want)
			}
		})
	}
}

func TestShellRunner_RunsInDir(t *testing.T) {
	dir := t.TempDir()
	r := newTestRunner(t)

	o := r.Run(context.Background(), ProcessSpec{Command: "pwd -P", Dir: dir, Timeout: 5 * time.Second})
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(o.Stdout)); got != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}

func TestShellRunner_Timeout(t *testing.T) {
	r := newTestRunner(t)

	start := time.Now()
	o := r.Run(context.Background(), ProcessSpec{Command: "sleep 10", Timeout: 200 * time.Millisecond})
	elapsed := time.Since(start)

	if o.Kind != OutcomeTimedOut {
		t.Fatalf("Kind = %s, want timed_out", o.Kind)
	}
	if o.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", o.ExitCode)
	}
	if elapsed > 5*time.Second {
		t.Errorf("Run took %s, process was not stopped", elapsed)
	}
}

func TestShellRunner_TimeoutKillsGroup(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "survived")
	r := newTestRunner(t)

	// The child ignores SIGTERM and would write the marker if it outlived
	// the kill.
	cmd := "trap '' TERM; (sleep 1; touch " + marker + ") & wait"
	o := r.Run(context.Background(), ProcessSpec{Command: cmd, Timeout: 200 * time.Millisecond})
	if o.Kind != OutcomeTimedOut {
		t.Fatalf("Kind = %s, want timed_out", o.Kind)
	}

	time.Sleep(1500 * time.Millisecond)
	if _, err := os.Stat(marker); err == nil {
		t.Error("background child survived the timeout")
	}
}

func TestShellRunner_Cancelled(t *testing.T) {
	r := newTestRunner(t)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	o := r.Run(ctx, ProcessSpec{Command: "sleep 10", Timeout: time.Minute})
	if o.Kind != OutcomeCancelled {
		t.Fatalf("Kind = %s, want cancelled", o.Kind)
	}
}

func TestShellRunner_StartFailure(t *testing.T) {
	r := NewShellRunner(filepath.Join(t.TempDir(), "no-such-shell"), 0, 0)

	o := r.Run(context.Background(), ProcessSpec{Command: "true", Timeout: time.Second})
	if o.Kind != OutcomeFailed || o.Err == nil {
		t.Errorf("Outcome = %+v, want failed with error", o)
	}
}

func TestShellRunner_BoundsCapture(t *testing.T) {
	r := newTestRunner(t)

	// 100000 bytes against a 10 character limit (40 bytes kept).
	o := r.Run(context.Background(), ProcessSpec{
		Command:   "head -c 100000 /dev/zero | tr '\\0' a",
		Timeout:   5 * time.Second,
		MaxOutput: 10,
	})
	if o.Kind != OutcomeCompleted {
		t.Fatalf("Kind = %s, want completed", o.Kind)
	}
	if len(o.Stdout) != 40 {
		t.Errorf("captured %d bytes, want 40", len(o.Stdout))
	}
	if !o.StdoutOverflow {
		t.Error("StdoutOverflow = false, want true")
	}
}

func TestExecute_RealProcess(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultTimeout = 300 * time.Millisecond
	cfg.KillGrace = 100 * time.Millisecond
	cfg.MaxOutputSize = 10
	e, dir := newTestExecutor(t, cfg)

	res := e.Execute(context.Background(), Request{Command: "echo Hello"})
	if want := "STDOUT:\nHello\n\n\nExit code: 0\nWorking directory: " + dir; res.Output != want {
		t.Errorf("Output = %q, want %q", res.Output, want)
	}

	res = e.Execute(context.Background(), Request{Command: "printf abcdefghijklmnopqrstuvwxyz"})
	if !strings.Contains(res.Output, "STDOUT:\nabcdefghij\n... (output truncated, showing first 10 characters)") {
		t.Errorf("Output = %q, want truncated stdout", res.Output)
	}

	res = e.Execute(context.Background(), Request{Command: "sleep 10"})
	if res.Status != StatusTimeout || !strings.HasPrefix(res.Output, "Error: Command timed out after 300ms") {
		t.Errorf("Result = %+v, want timeout", res)
	}

	res = e.Execute(context.Background(), Request{Command: "nonexistent_command_12345"})
	if !res.Failed || !strings.Contains(res.Output, "STDERR:") {
		t.Errorf("Result = %+v, want failure with stderr", res)
	}
}

func TestShellArgs(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{"/bin/sh", []string{"-c", "ls"}},
		{"/usr/bin/bash", []string{"-c", "ls"}},
		{"cmd", []string{"/C", "ls"}},
		{"C:/Windows/System32/cmd.exe", []string{"/C", "ls"}},
		{"pwsh", []string{"-NoProfile", "-Command", "ls"}},
	}
	for _, tt := range tests {
		if got := shellArgs(tt.shell, "ls"); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("shellArgs(%q) = %q, want %q", tt.shell, got, tt.want)
		}
	}
}

func TestBoundedBuffer(t *testing.T) {
	b := newBoundedBuffer(5)

	n, err := b.Write([]byte("abc"))
	if n != 3 || err != nil {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	n, err = b.Write([]byte("defgh"))
	if n != 5 || err != nil {
		t.Fatalf("Write() past limit = %d, %v; want full length and no error", n, err)
	}
	if string(b.Bytes()) != "abcde" {
		t.Errorf("Bytes() = %q, want %q", b.Bytes(), "abcde")
	}
	if !b.Overflow() {
		t.Error("Overflow() = false, want true")
	}
}
