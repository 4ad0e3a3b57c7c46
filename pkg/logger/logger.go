// Package logger provides namespaced debug loggers in the style of the
// "debug" npm package.
//
// Loggers are created once per file with a "package:file" namespace and are
// silent unless the DEBUG environment variable enables their namespace:
//
//	DEBUG=*                      enable everything
//	DEBUG=shader:*               enable one package
//	DEBUG=shader:*,cli:*         enable several packages
//	DEBUG=*,-shader:execute      enable everything except one logger
//
// Output goes to stderr and every line is suffixed with the time elapsed since
// the previous line written by the same logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes debug output for a single namespace.
type Logger struct {
	namespace string
	enabled   bool

	mu   sync.Mutex
	last time.Time
	out  io.Writer
}

// New creates a logger for the given namespace. Whether it is enabled is
// decided once, from the DEBUG environment variable at creation time.
func New(namespace string) *Logger {
	return &Logger{
		namespace: namespace,
		enabled:   computeEnabled(namespace, os.Getenv("DEBUG")),
		out:       os.Stderr,
	}
}

// Enabled reports whether the logger writes anything.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Namespace returns the logger's namespace.
func (l *Logger) Namespace() string {
	return l.namespace
}

// Printf formats according to a format specifier and writes the line.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprintf(format, args...))
}

// Print concatenates its arguments like fmt.Sprint and writes the line.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprint(args...))
}

func (l *Logger) write(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	var diff time.Duration
	if !l.last.IsZero() {
		diff = now.Sub(l.last)
	}
	l.last = now

	fmt.Fprintf(l.out, "%s %s +%s\n", l.namespace, strings.TrimRight(msg, "\n"), formatDiff(diff))
}

func formatDiff(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.Round(time.Millisecond).String()
	}
}

// computeEnabled evaluates a DEBUG pattern list against a namespace.
// Patterns are comma separated; a leading '-' excludes, and exclusions win.
func computeEnabled(namespace, debug string) bool {
	if debug == "" {
		return false
	}

	enabled := false
	for _, raw := range strings.Split(debug, ",") {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}
		if strings.HasPrefix(pattern, "-") {
			if matchPattern(namespace, pattern[1:]) {
				return false
			}
			continue
		}
		if matchPattern(namespace, pattern) {
			enabled = true
		}
	}
	return enabled
}

// matchPattern matches a namespace against a pattern where '*' matches any
// run of characters.
func matchPattern(namespace, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return namespace == pattern
	}

	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(namespace, parts[0]) {
		return false
	}
	rest := namespace[len(parts[0]):]
	for i, part := range parts[1:] {
		if i == len(parts)-2 {
			return strings.HasSuffix(rest, part)
		}
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}
	return true
}
