// Package clog is the gateway's operational log. Command output never goes
// through it; that is returned to the caller in a Result.
//
// What each level carries:
//   - Debug: every spawn, cache hit and protocol method (--debug or log.level)
//   - Info: directory changes, sessions opening and closing, server lifecycle
//   - Warn: timeouts, kill escalations, unknown tools, audit write failures
//   - Error: panics recovered in the executor or a tool handler
//
// The log file receives every enabled level. Stderr gets Warn and Error
// unless daemon mode is on, which serve uses on stdio.
package clog

import (
	"fmt"
	"strings"
)

// Level is a log severity. Messages below the logger's level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// String returns the tag written in front of each log line.
func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return strings.ToUpper(levelNames[l])
}

// ParseLevel parses a log.level value. Matching ignores case and
// surrounding space; an empty value means LevelInfo.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return LevelInfo, nil
	}
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q (want %s)", s, strings.Join(levelNames[:], ", "))
}

// Effective returns the level to log at: debug when forced by --debug,
// otherwise the configured one.
func Effective(configured string, forceDebug bool) (Level, error) {
	if forceDebug {
		return LevelDebug, nil
	}
	return ParseLevel(configured)
}
