// Package executor runs shell commands on the host with bounded time and
// output, and tracks the logical current directory used when a caller does
// not name one.
//
// Every public operation returns a Result. Failures of any kind (empty
// input, bad directories, timeouts, spawn errors) are reported through
// Result.Failed and a human-readable Output, never as a Go error or panic.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Frost26/ShellGateway/internal/audit"
	"github.com/Frost26/ShellGateway/internal/clog"
)

// Status constants for Result.Status.
const (
	StatusCompleted = "completed"
	StatusTimeout   = "timeout"
	StatusCancelled = "cancelled"
	StatusError     = "error"
)

// CacheMarker is appended to the output of results served from the cache.
const CacheMarker = "\n\n[Result from cache]"

// Request is a single command execution request.
type Request struct {
	Command string `json:"command"`
	// WorkingDirectory overrides the executor's current directory for this
	// call only. Empty means the current directory.
	WorkingDirectory string `json:"working_directory,omitempty"`
}

// Result is the outcome of an executor operation.
type Result struct {
	Output   string        `json:"output"`
	ExitCode int           `json:"exit_code"`
	Failed   bool          `json:"failed"`
	Status   string        `json:"status"` // "completed", "timeout", "cancelled", "error"
	Cached   bool          `json:"cached,omitempty"`
	Dir      string        `json:"dir,omitempty"`
	// Duration is the run time of the process; zero for cache hits and
	// requests rejected before spawning.
	Duration time.Duration `json:"duration,omitempty"`
}

// Executor runs commands and owns the current directory state.
// It is safe for concurrent use.
type Executor struct {
	cfg    Config
	runner Runner
	cache  *ResultCache
	audit  *audit.Logger

	mu  sync.RWMutex
	cwd string
}

// Option configures an Executor.
type Option func(*Executor)

// WithRunner replaces the process runner. Used by tests to count or fake
// spawns.
func WithRunner(r Runner) Option {
	return func(e *Executor) {
		e.runner = r
	}
}

// WithCache makes the executor use a shared result cache.
func WithCache(c *ResultCache) Option {
	return func(e *Executor) {
		e.cache = c
	}
}

// WithAuditLogger sets the audit logger. A nil logger disables auditing.
func WithAuditLogger(l *audit.Logger) Option {
	return func(e *Executor) {
		e.audit = l
	}
}

// WithInitialDirectory sets the starting current directory.
func WithInitialDirectory(dir string) Option {
	return func(e *Executor) {
		e.cwd = dir
	}
}

// New creates an Executor. The current directory starts at the user's home
// directory unless WithInitialDirectory is given; New fails if that
// directory is not an existing, readable directory.
func New(cfg Config, opts ...Option) (*Executor, error) {
	cfg = cfg.withDefaults()
	e := &Executor{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.runner == nil {
		e.runner = NewShellRunner(cfg.Shell, cfg.KillGrace, cfg.ReapTimeout)
	}
	if e.cache == nil {
		e.cache = NewResultCache(cfg.CacheMaxAge, cfg.CacheableCommands)
	}

	if e.cwd == "" {
		dir, err := defaultDirectory()
		if err != nil {
			return nil, err
		}
		e.cwd = dir
	}
	dir, err := resolveDirectory(e.cwd, "")
	if err != nil {
		return nil, fmt.Errorf("initial directory: %w", err)
	}
	if err := checkDirectory(dir); err != nil {
		return nil, fmt.Errorf("initial directory: %w", err)
	}
	e.cwd = dir
	return e, nil
}

// defaultDirectory returns the home directory, or the process working
// directory when home cannot be determined.
func defaultDirectory() (string, error) {
	if home, err := os.UserHomeDir(); err == nil {
		if info, err := os.Stat(home); err == nil && info.IsDir() {
			return home, nil
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determine initial directory: %w", err)
	}
	return wd, nil
}

// Config returns the executor's effective configuration.
func (e *Executor) Config() Config {
	return e.cfg
}

// Cache returns the result cache used by this executor.
func (e *Executor) Cache() *ResultCache {
	return e.cache
}

// Dir returns the current directory.
func (e *Executor) Dir() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cwd
}

// Execute runs req.Command through the configured shell.
func (e *Executor) Execute(ctx context.Context, req Request) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			clog.Error("executor: panic while running %q: %v", req.Command, r)
			res = internalFailure(fmt.Errorf("%v", r))
		}
	}()

	if err := checkCommand(req.Command); err != nil {
		return inputFailure("Error: Command cannot be empty")
	}

	cwd := e.Dir()
	if strings.TrimSpace(req.WorkingDirectory) != "" {
		dir, err := resolveDirectory(req.WorkingDirectory, cwd)
		if err != nil {
			return inputFailure(directoryMessage(req.WorkingDirectory, err))
		}
		cwd = dir
	}
	if err := checkDirectory(cwd); err != nil {
		return inputFailure(directoryMessage(cwd, err))
	}

	key := CacheKey(req.Command, cwd)
	if cached, ok := e.cache.Get(key); ok {
		clog.Debug("executor: cache hit for %q in %s", req.Command, cwd)
		e.logAudit(audit.EventCacheHit, req.Command, cwd, cached.ExitCode, 0)
		cached.Output += CacheMarker
		cached.Cached = true
		cached.Duration = 0
		return cached
	}

	timeout := e.cfg.timeoutFor(req.Command)
	e.logAudit(audit.EventRequest, req.Command, cwd, 0, 0)
	clog.Debug("executor: running %q in %s (timeout %s)", req.Command, cwd, timeout)

	outcome := e.runner.Run(ctx, ProcessSpec{
		Command:   req.Command,
		Dir:       cwd,
		Timeout:   timeout,
		MaxOutput: e.cfg.MaxOutputSize,
	})
	res = e.buildResult(outcome, cwd, timeout)

	switch res.Status {
	case StatusTimeout:
		clog.Warn("executor: %q timed out after %s", req.Command, timeout)
		e.logAudit(audit.EventTimeout, req.Command, cwd, res.ExitCode, res.Duration)
	case StatusError, StatusCancelled:
		e.logAudit(audit.EventError, req.Command, cwd, res.ExitCode, res.Duration)
	default:
		e.logAudit(audit.EventComplete, req.Command, cwd, res.ExitCode, res.Duration)
	}

	if !res.Failed && e.cache.Eligible(req.Command) {
		e.cache.Set(key, res)
	}
	return res
}

// buildResult converts a process outcome into a Result.
func (e *Executor) buildResult(o Outcome, cwd string, timeout time.Duration) Result {
	switch o.Kind {
	case OutcomeCompleted:
		stdout := shapeStream(o.Stdout, o.StdoutOverflow, e.cfg.MaxOutputSize)
		stderr := shapeStream(o.Stderr, o.StderrOverflow, e.cfg.MaxOutputSize)
		return Result{
			Output:   formatOutput(stdout, stderr, o.ExitCode, cwd),
			ExitCode: o.ExitCode,
			Failed:   o.ExitCode != 0,
			Status:   StatusCompleted,
			Dir:      cwd,
			Duration: o.Duration,
		}
	case OutcomeTimedOut:
		return Result{
			Output:   fmt.Sprintf("Error: Command timed out after %s\nWorking directory: %s", timeout, cwd),
			ExitCode: -1,
			Failed:   true,
			Status:   StatusTimeout,
			Dir:      cwd,
			Duration: o.Duration,
		}
	case OutcomeCancelled:
		return Result{
			Output:   fmt.Sprintf("Error: Command cancelled after %s\nWorking directory: %s", o.Duration.Round(time.Millisecond), cwd),
			ExitCode: -1,
			Failed:   true,
			Status:   StatusCancelled,
			Dir:      cwd,
			Duration: o.Duration,
		}
	default:
		err := o.Err
		if err == nil {
			err = errors.New("unknown process failure")
		}
		res := internalFailure(err)
		res.Dir = cwd
		res.Duration = o.Duration
		return res
	}
}

// ChangeDirectory sets the current directory. The path may contain ~ and
// environment variable references; relative paths are resolved against the
// current directory. On failure the current directory is unchanged.
func (e *Executor) ChangeDirectory(path string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Output:   fmt.Sprintf("Error changing directory: %v", r),
				ExitCode: 1,
				Failed:   true,
				Status:   StatusError,
			}
		}
	}()

	if strings.TrimSpace(path) == "" {
		return inputFailure("Error: Path cannot be empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	dir, err := resolveDirectory(path, e.cwd)
	if err != nil {
		return inputFailure(fmt.Sprintf("Error changing directory: %v", err))
	}
	if err := checkDirectory(dir); err != nil {
		return inputFailure(directoryMessage(dir, err))
	}
	if err := probeReadable(dir); err != nil {
		return inputFailure(directoryMessage(dir, err))
	}

	clog.Info("executor: current directory %s -> %s", e.cwd, dir)
	e.cwd = dir
	e.logAudit(audit.EventChdir, "cd "+path, dir, 0, 0)
	return Result{
		Output: "Changed directory to: " + dir,
		Status: StatusCompleted,
		Dir:    dir,
	}
}

// CurrentDirectory reports the current directory.
func (e *Executor) CurrentDirectory() Result {
	dir := e.Dir()
	return Result{
		Output: "Current directory: " + dir,
		Status: StatusCompleted,
		Dir:    dir,
	}
}

func (e *Executor) logAudit(t audit.EventType, cmd, dir string, exitCode int, d time.Duration) {
	if e.audit == nil {
		return
	}
	err := e.audit.Log(&audit.Event{
		Timestamp: time.Now(),
		Type:      t,
		Cmd:       cmd,
		Dir:       dir,
		ExitCode:  exitCode,
		Duration:  d,
	})
	if err != nil {
		clog.Warn("executor: failed to write audit event: %v", err)
	}
}

// inputFailure reports a rejected request. No process was started.
func inputFailure(msg string) Result {
	return Result{
		Output:   msg,
		ExitCode: 1,
		Failed:   true,
		Status:   StatusError,
	}
}

// internalFailure reports a fault while starting or supervising a process.
func internalFailure(err error) Result {
	return Result{
		Output:   "Error executing command: " + err.Error(),
		ExitCode: -1,
		Failed:   true,
		Status:   StatusError,
	}
}
