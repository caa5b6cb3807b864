// Package tui provides the interactive terminal interface for previewing and
// applying a rename plan. It uses Charmbracelet's Bubble Tea, Lip Gloss and
// Bubbles.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/rename/pkg/rename/logging"
	"github.com/jamesainslie/rename/pkg/rename/types"
)

// Color palette for the TUI.
var (
	// Primary colors
	primaryColor = lipgloss.Color("#7D56F4")
	accentColor  = lipgloss.Color("#00D9FF")

	// Status colors
	successColor = lipgloss.Color("#28A745")
	warningColor = lipgloss.Color("#FFC107")
	dangerColor  = lipgloss.Color("#DC3545")

	// Neutral colors
	mutedColor     = lipgloss.Color("#666666")
	subtleColor    = lipgloss.Color("#444444")
	borderColor    = lipgloss.Color("#333333")
	highlightColor = lipgloss.Color("#1A1A2E")
)

// Box styles for containers.
var (
	// outerBoxStyle is the main container style.
	outerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	// dividerStyle creates horizontal dividers.
	dividerStyle = lipgloss.NewStyle().
			Foreground(borderColor)
)

// Text styles.
var (
	// titleStyle for main titles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// mutedTextStyle for less important text.
	mutedTextStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// errorTextStyle for error messages.
	errorTextStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	// successTextStyle for success messages.
	successTextStyle = lipgloss.NewStyle().
				Foreground(successColor)

	// warningTextStyle for warnings and the stale marker.
	warningTextStyle = lipgloss.NewStyle().
				Foreground(warningColor)

	// exampleStyle for the example name above the options.
	exampleStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)
)

// Plan list styles.
var (
	// selectedItemStyle for the row under the cursor.
	selectedItemStyle = lipgloss.NewStyle().
				Background(highlightColor).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	// normalItemStyle for the other rows.
	normalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	// cursorStyle for the cursor marker.
	cursorStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	// arrowStyle for the arrow between the old and new name.
	arrowStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// columnHeaderStyle for the column titles above the rows.
	columnHeaderStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Bold(true)
)

// Option bar styles.
var (
	// optionLabelStyle for option names.
	optionLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	// optionValueStyle for the current option values.
	optionValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)
)

// Key hint styles.
var (
	// keyStyle for key names in hints.
	keyStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	// keyDescStyle for key descriptions.
	keyDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// Confirmation dialog styles.
var (
	// dialogBoxStyle for the confirmation dialog container.
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(warningColor).
			Padding(1, 2).
			Width(50)

	// dialogTitleStyle for the dialog title.
	dialogTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(warningColor).
				Align(lipgloss.Center)

	// dialogTextStyle for the dialog question.
	dialogTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Align(lipgloss.Center)

	// activeButtonStyle for the focused button.
	activeButtonStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Margin(0, 1).
				Background(primaryColor).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	// inactiveButtonStyle for unfocused buttons.
	inactiveButtonStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Margin(0, 1).
				Background(subtleColor).
				Foreground(lipgloss.Color("#CCCCCC"))
)

// Log panel styles.
var (
	// logTimeStyle for entry timestamps.
	logTimeStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// logComponentStyle for the component name.
	logComponentStyle = lipgloss.NewStyle().
				Foreground(accentColor)

	// Level styles.
	logDebugStyle = lipgloss.NewStyle().Foreground(mutedColor)
	logInfoStyle  = lipgloss.NewStyle().Foreground(successColor)
	logWarnStyle  = lipgloss.NewStyle().Foreground(warningColor)
	logErrorStyle = lipgloss.NewStyle().Foreground(dangerColor)
)

// statusStyle colors a plan row status.
func statusStyle(s types.Status) lipgloss.Style {
	switch s {
	case types.StatusOK:
		return successTextStyle
	case types.StatusConflict:
		return errorTextStyle.Bold(true)
	default:
		return mutedTextStyle
	}
}

// logLevelStyle returns the style for a log level.
func logLevelStyle(level logging.Level) lipgloss.Style {
	switch level {
	case logging.LevelDebug:
		return logDebugStyle
	case logging.LevelWarn:
		return logWarnStyle
	case logging.LevelError:
		return logErrorStyle
	default:
		return logInfoStyle
	}
}

// renderDivider creates a horizontal divider line.
func renderDivider(width int) string {
	return dividerStyle.Render(repeatChar('─', width))
}

// repeatChar repeats a character n times.
func repeatChar(char rune, n int) string {
	if n <= 0 {
		return ""
	}
	result := make([]rune, n)
	for i := range result {
		result[i] = char
	}
	return string(result)
}

// truncateLeft shortens s to maxLen runes, keeping the end.
func truncateLeft(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[len(r)-maxLen:])
	}
	return "..." + string(r[len(r)-(maxLen-3):])
}

// truncateRight shortens s to maxLen runes, keeping the start.
func truncateRight(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + repeatChar(' ', width-w)
	}
	return s
}

// center centers a string within the given width.
func center(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	leftPad := (width - w) / 2
	return repeatChar(' ', leftPad) + s + repeatChar(' ', width-w-leftPad)
}

// keyHint renders "[key] desc".
func keyHint(key, desc string) string {
	return keyStyle.Render("["+key+"]") + " " + keyDescStyle.Render(desc)
}
