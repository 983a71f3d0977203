package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Frost26/ShellGateway/internal/clog"
)

// OutcomeKind tags how a supervised process ended.
type OutcomeKind int

const (
	// OutcomeCompleted means the process exited on its own.
	OutcomeCompleted OutcomeKind = iota
	// OutcomeTimedOut means the timeout fired and the process group was
	// stopped.
	OutcomeTimedOut
	// OutcomeCancelled means the caller's context ended first.
	OutcomeCancelled
	// OutcomeFailed means the process could not be started or waited on.
	OutcomeFailed
)

// String returns the lowercase name of the outcome.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProcessSpec describes one process to run.
type ProcessSpec struct {
	Command string
	Dir     string
	Timeout time.Duration
	// MaxOutput is the per-stream character limit the caller will apply.
	// The runner keeps enough bytes to honour it and discards the rest.
	MaxOutput int
}

// Outcome is the result of a bounded wait on a process.
type Outcome struct {
	Kind           OutcomeKind
	Stdout         []byte
	Stderr         []byte
	StdoutOverflow bool // bytes were discarded past the capture limit
	StderrOverflow bool
	ExitCode       int
	Err            error // set for OutcomeFailed
	Duration       time.Duration
}

// Runner starts a command and waits for it within spec.Timeout.
type Runner interface {
	Run(ctx context.Context, spec ProcessSpec) Outcome
}

// signaler stops a running process. Implementations signal the whole
// process group where the platform supports it.
type signaler interface {
	prepare(cmd *exec.Cmd)
	terminate(p *os.Process) error
	kill(p *os.Process) error
}

// ShellRunner runs commands through a shell interpreter.
type ShellRunner struct {
	shell       string
	killGrace   time.Duration
	reapTimeout time.Duration
	signals     signaler
}

// NewShellRunner creates a ShellRunner. killGrace is the wait between the
// termination and kill signals; reapTimeout bounds the final wait.
func NewShellRunner(shell string, killGrace, reapTimeout time.Duration) *ShellRunner {
	if shell == "" {
		shell = defaultShell()
	}
	if killGrace <= 0 {
		killGrace = DefaultKillGrace
	}
	if reapTimeout <= 0 {
		reapTimeout = DefaultReapTimeout
	}
	return &ShellRunner{
		shell:       shell,
		killGrace:   killGrace,
		reapTimeout: reapTimeout,
		signals:     newSignaler(),
	}
}

// Run starts spec.Command and waits until it exits. The process group is
// stopped early when spec.Timeout elapses or ctx ends.
func (r *ShellRunner) Run(ctx context.Context, spec ProcessSpec) Outcome {
	start := time.Now()

	cmd := exec.Command(r.shell, shellArgs(r.shell, spec.Command)...) //nolint:gosec // G204: command comes from the caller
	cmd.Dir = spec.Dir

	limit := 0
	if spec.MaxOutput > 0 {
		limit = spec.MaxOutput * utf8.UTFMax
	}
	stdout := newBoundedBuffer(limit)
	stderr := newBoundedBuffer(limit)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// Stray descendants holding the pipes open must not stall Wait.
	cmd.WaitDelay = r.killGrace
	r.signals.prepare(cmd)

	if err := cmd.Start(); err != nil {
		return Outcome{
			Kind:     OutcomeFailed,
			Err:      fmt.Errorf("start %s: %w", r.shell, err),
			ExitCode: -1,
			Duration: time.Since(start),
		}
	}

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	var timeoutC <-chan time.Time
	if spec.Timeout > 0 {
		timer := time.NewTimer(spec.Timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	kind := OutcomeTimedOut
	select {
	case err := <-waitCh:
		return r.finished(cmd, err, stdout, stderr, start)
	case <-timeoutC:
	case <-ctx.Done():
		kind = OutcomeCancelled
	}

	// The process may have exited while the timer fired.
	select {
	case err := <-waitCh:
		return r.finished(cmd, err, stdout, stderr, start)
	default:
	}

	r.stop(cmd.Process, waitCh)
	return Outcome{
		Kind:           kind,
		Stdout:         stdout.Bytes(),
		Stderr:         stderr.Bytes(),
		StdoutOverflow: stdout.Overflow(),
		StderrOverflow: stderr.Overflow(),
		ExitCode:       -1,
		Duration:       time.Since(start),
	}
}

// finished builds the outcome for a process that exited on its own.
func (r *ShellRunner) finished(cmd *exec.Cmd, waitErr error, stdout, stderr *boundedBuffer, start time.Time) Outcome {
	o := Outcome{
		Kind:           OutcomeCompleted,
		Stdout:         stdout.Bytes(),
		Stderr:         stderr.Bytes(),
		StdoutOverflow: stdout.Overflow(),
		StderrOverflow: stderr.Overflow(),
		Duration:       time.Since(start),
	}
	if waitErr == nil {
		return o
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(waitErr, &exitErr):
		o.ExitCode = exitErr.ExitCode()
	case errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState != nil:
		// The shell exited but something it spawned kept the pipes open.
		o.ExitCode = cmd.ProcessState.ExitCode()
	default:
		o.Kind = OutcomeFailed
		o.ExitCode = -1
		o.Err = fmt.Errorf("wait for %s: %w", r.shell, waitErr)
	}
	return o
}

// stop terminates the process group, escalates to a kill after the grace
// period, and waits a bounded time for the process to be reaped.
func (r *ShellRunner) stop(p *os.Process, waitCh <-chan error) {
	if err := r.signals.terminate(p); err != nil {
		clog.Debug("executor: terminate pid %d: %v", p.Pid, err)
	}

	grace := time.NewTimer(r.killGrace)
	defer grace.Stop()
	select {
	case <-waitCh:
		// Leader is gone; sweep anything left in its group.
		_ = r.signals.kill(p)
		return
	case <-grace.C:
	}

	clog.Debug("executor: pid %d ignored termination, killing", p.Pid)
	if err := r.signals.kill(p); err != nil {
		clog.Warn("executor: kill pid %d: %v", p.Pid, err)
	}

	reap := time.NewTimer(r.reapTimeout)
	defer reap.Stop()
	select {
	case <-waitCh:
	case <-reap.C:
		clog.Warn("executor: pid %d not reaped within %s", p.Pid, r.reapTimeout)
	}
}

// shellArgs builds the interpreter arguments for command.
func shellArgs(shell, command string) []string {
	switch strings.ToLower(strings.TrimSuffix(filepath.Base(shell), ".exe")) {
	case "cmd":
		return []string{"/C", command}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command", command}
	default:
		return []string{"-c", command}
	}
}

// boundedBuffer keeps at most limit bytes and records whether more were
// written. A limit of zero keeps everything. Writes never fail, so the
// child is not disturbed by a full buffer.
type boundedBuffer struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func newBoundedBuffer(limit int) *boundedBuffer {
	return &boundedBuffer{limit: limit}
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limit <= 0 {
		return b.buf.Write(p)
	}
	room := b.limit - b.buf.Len()
	if len(p) > room {
		if room > 0 {
			b.buf.Write(p[:room])
		}
		b.overflow = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

// Bytes returns a copy of the captured bytes.
func (b *boundedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

// Overflow reports whether bytes were discarded.
func (b *boundedBuffer) Overflow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overflow
}
