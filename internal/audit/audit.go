// Package audit writes one key=value line per command execution event.
// Lines are meant to be grepped and parsed, not read as prose.
package audit

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

// EventType identifies what happened to a command.
type EventType string

// Event types for command execution.
const (
	EventRequest  EventType = "REQUEST"
	EventCacheHit EventType = "CACHE_HIT"
	EventComplete EventType = "COMPLETE"
	EventTimeout  EventType = "TIMEOUT"
	EventError    EventType = "ERROR"
	EventChdir    EventType = "CHDIR"
)

// Event is one audit log entry.
type Event struct {
	// Timestamp is when the event occurred.
	Timestamp time.Time

	// Type is the event type (REQUEST, COMPLETE, etc.)
	Type EventType

	// Cmd is the command line as received.
	Cmd string

	// Dir is the resolved working directory.
	Dir string

	// ExitCode is the command exit code (COMPLETE, TIMEOUT, ERROR, CACHE_HIT).
	ExitCode int

	// Duration is the execution time (COMPLETE, TIMEOUT, ERROR).
	Duration time.Duration
}

// Format returns the log entry as a single line.
// Format: 2024-01-15T14:32:05Z EXEC COMPLETE dir="/home/me" cmd="ls -la" exit=0 duration=12.0ms
func (e *Event) Format() string {
	var b strings.Builder

	b.WriteString(e.Timestamp.UTC().Format(time.RFC3339))
	b.WriteString(" EXEC ")
	b.WriteString(string(e.Type))

	b.WriteString(" dir=")
	b.WriteString(quoteValue(e.Dir))
	b.WriteString(" cmd=")
	b.WriteString(quoteValue(e.Cmd))

	switch e.Type {
	case EventComplete, EventTimeout, EventError:
		b.WriteString(" exit=")
		b.WriteString(strconv.Itoa(e.ExitCode))
		b.WriteString(" duration=")
		b.WriteString(formatDuration(e.Duration))
	case EventCacheHit:
		b.WriteString(" exit=")
		b.WriteString(strconv.Itoa(e.ExitCode))
	}

	return b.String()
}

// quoteValue returns a Go-quoted string so spaces and quotes survive parsing.
func quoteValue(s string) string {
	return fmt.Sprintf("%q", s)
}

// formatDuration formats a duration as a human-readable string (e.g., "2.3s", "1m30s").
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// Logger writes audit events to an io.Writer.
type Logger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogger creates a new audit logger that writes to the given writer.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w}
}

// Log writes an event to the audit log. A nil Logger discards events.
func (l *Logger) Log(e *Event) error {
	if l == nil || l.w == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := io.WriteString(l.w, e.Format()+"\n"); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

// Close closes the underlying writer if it is an io.Closer.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
