package executor

import (
	"runtime"
	"time"
)

// Defaults used when a Config field is left at its zero value.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultMaxTimeout    = 300 * time.Second
	DefaultMaxOutputSize = 50000
	DefaultCacheMaxAge   = 60 * time.Second
	DefaultKillGrace     = time.Second
	DefaultReapTimeout   = time.Second
)

// DefaultLongRunningCommands lists commands that get MaxTimeout instead of
// DefaultTimeout: search, archive, sync, copy, move and package/build tools.
var DefaultLongRunningCommands = []string{
	"find", "grep", "rg", "locate", "du",
	"tar", "zip", "unzip", "gzip", "gunzip", "xz", "7z",
	"rsync", "scp", "cp", "mv", "dd",
	"wget", "curl", "git",
	"apt", "apt-get", "yum", "dnf", "pip", "npm", "make", "docker",
}

// DefaultCacheableCommands lists read-only commands whose successful
// results may be served from the cache.
var DefaultCacheableCommands = []string{
	"pwd", "ls", "whoami", "id", "hostname", "uname", "which", "df",
}

// Config holds the process-wide execution limits. All values are fixed once
// an Executor is created.
type Config struct {
	// Shell is the interpreter invoked as `<Shell> -c <command>`.
	Shell string
	// DefaultTimeout bounds ordinary commands.
	DefaultTimeout time.Duration
	// MaxTimeout bounds commands matched by LongRunningCommands.
	MaxTimeout time.Duration
	// MaxOutputSize is the maximum number of characters kept per stream.
	MaxOutputSize int
	// CacheMaxAge is how long cached results stay visible. Zero or negative
	// disables caching.
	CacheMaxAge time.Duration
	// KillGrace is how long a timed-out process group gets to exit after the
	// termination signal before it is killed.
	KillGrace time.Duration
	// ReapTimeout bounds the final wait after the kill signal.
	ReapTimeout time.Duration

	LongRunningCommands []string
	CacheableCommands   []string
}

// DefaultConfig returns the standard limits.
func DefaultConfig() Config {
	return Config{
		Shell:               defaultShell(),
		DefaultTimeout:      DefaultTimeout,
		MaxTimeout:          DefaultMaxTimeout,
		MaxOutputSize:       DefaultMaxOutputSize,
		CacheMaxAge:         DefaultCacheMaxAge,
		KillGrace:           DefaultKillGrace,
		ReapTimeout:         DefaultReapTimeout,
		LongRunningCommands: append([]string(nil), DefaultLongRunningCommands...),
		CacheableCommands:   append([]string(nil), DefaultCacheableCommands...),
	}
}

// withDefaults fills zero-valued limits. Nil command lists take the
// defaults; an empty non-nil list is kept empty. CacheMaxAge is left alone
// so callers can disable caching.
func (c Config) withDefaults() Config {
	if c.Shell == "" {
		c.Shell = defaultShell()
	}
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = DefaultTimeout
	}
	if c.MaxTimeout <= 0 {
		c.MaxTimeout = DefaultMaxTimeout
	}
	if c.MaxTimeout < c.DefaultTimeout {
		c.MaxTimeout = c.DefaultTimeout
	}
	if c.MaxOutputSize <= 0 {
		c.MaxOutputSize = DefaultMaxOutputSize
	}
	if c.KillGrace <= 0 {
		c.KillGrace = DefaultKillGrace
	}
	if c.ReapTimeout <= 0 {
		c.ReapTimeout = DefaultReapTimeout
	}
	if c.LongRunningCommands == nil {
		c.LongRunningCommands = append([]string(nil), DefaultLongRunningCommands...)
	}
	if c.CacheableCommands == nil {
		c.CacheableCommands = append([]string(nil), DefaultCacheableCommands...)
	}
	return c
}

// timeoutFor picks MaxTimeout if any word of the command names a
// long-running utility.
func (c Config) timeoutFor(command string) time.Duration {
	if matchesAny(commandWords(command), c.LongRunningCommands) {
		return c.MaxTimeout
	}
	return c.DefaultTimeout
}

func defaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd"
	}
	return "/bin/sh"
}
