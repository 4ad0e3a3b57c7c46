// Package tty reports whether stderr, where user messages go, is a terminal.
package tty

import (
	"os"

	"golang.org/x/term"
)

// IsStderrTerminal returns true if stderr is a terminal.
func IsStderrTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
