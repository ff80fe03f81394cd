// Package display renders CLI output: messages, tables, spinners and
// response bodies.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Out and Err are where output goes; tests replace them
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

var enableColor = isatty.IsTerminal(os.Stdout.Fd()) && strings.TrimSpace(os.Getenv("NO_COLOR")) == ""

var (
	colorSuccess = lipgloss.Color("#30d158")
	colorWarning = lipgloss.Color("#ffd60a")
	colorError   = lipgloss.Color("#ff453a")
	colorMuted   = lipgloss.Color("#808080")

	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

func style(s lipgloss.Style, text string) string {
	if !enableColor {
		return text
	}
	return s.Render(text)
}

// ShowError prints an error message
func ShowError(msg string) {
	fmt.Fprintln(Err, style(errorStyle, "Error: ")+msg)
}

// ShowWarning prints a warning message
func ShowWarning(msg string) {
	fmt.Fprintln(Err, style(warningStyle, "Warning: ")+msg)
}

// ShowSuccess prints a confirmation
func ShowSuccess(msg string) {
	fmt.Fprintln(Out, style(successStyle, "✓ ")+msg)
}

// ShowInfo prints a muted informational line
func ShowInfo(msg string) {
	fmt.Fprintln(Out, style(mutedStyle, msg))
}

// MaskKey hides all but the last four characters of a secret
func MaskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
