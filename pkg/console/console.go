// Package console formats user-facing messages for the terminal.
//
// Every message helper returns a string with a leading icon; styling is only
// applied when stderr is a terminal so piped output stays plain text.
package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"github.com/stardust-engine/shaderbuild/pkg/styles"
	"github.com/stardust-engine/shaderbuild/pkg/tty"
)

var consoleLog = logger.New("console:console")

// isTTY is evaluated per call so tests that swap os.Stderr see the change.
func isTTY() bool {
	return tty.IsStderrTerminal()
}

// applyStyle renders text with style when writing to a terminal.
func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// FormatSuccessMessage formats a success message.
func FormatSuccessMessage(message string) string {
	return applyStyle(styles.Success, "✓ ") + message
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(message string) string {
	return applyStyle(styles.Info, "ℹ ") + message
}

// FormatWarningMessage formats a warning message.
func FormatWarningMessage(message string) string {
	return applyStyle(styles.Warning, "⚠ ") + message
}

// FormatErrorMessage formats an error message.
func FormatErrorMessage(message string) string {
	return applyStyle(styles.Error, "✗ ") + message
}

// FormatCommandMessage formats a command line about to be executed.
func FormatCommandMessage(command string) string {
	return applyStyle(styles.Command, "⚡ ") + command
}

// FormatProgressMessage formats a progress message.
func FormatProgressMessage(message string) string {
	return applyStyle(styles.Progress, "🔨 ") + message
}

// FormatLocationMessage formats a message pointing at a file system location.
func FormatLocationMessage(message string) string {
	return applyStyle(styles.Location, "📁 ") + message
}

// FormatVerboseMessage formats a verbose/debug message.
func FormatVerboseMessage(message string) string {
	return applyStyle(styles.Verbose, "🔍 "+message)
}

// FormatListItem formats an indented bullet.
func FormatListItem(item string) string {
	return "  • " + item
}

// LogVerbose writes a verbose message to stderr when verbose is set.
func LogVerbose(verbose bool, message string) {
	if verbose {
		fmt.Fprintln(os.Stderr, FormatVerboseMessage(message))
	}
}

// FormatErrorWithSuggestions formats an error followed by a list of
// suggestions for fixing it.
func FormatErrorWithSuggestions(message string, suggestions []string) string {
	var b strings.Builder
	b.WriteString(FormatErrorMessage(message))
	if len(suggestions) > 0 {
		b.WriteString("\n\n")
		b.WriteString(FormatInfoMessage("Suggestions:"))
		for _, s := range suggestions {
			b.WriteString("\n")
			b.WriteString(FormatListItem(s))
		}
	}
	return b.String()
}

// FormatFileSize formats a byte count with a binary unit suffix.
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// ToRelativePath converts an absolute path to a path relative to the
// working directory. Relative paths are returned unchanged.
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		consoleLog.Printf("Failed to get working directory: %v", err)
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return rel
}
