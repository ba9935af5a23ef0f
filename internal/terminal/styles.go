package terminal

import (
	"github.com/charmbracelet/lipgloss"
)

// Dark console palette
var (
	// Base colors
	colorFg        = lipgloss.Color("#EDEDED")
	colorMuted     = lipgloss.Color("#666666")
	colorBorder    = lipgloss.Color("#333333")
	colorHighlight = lipgloss.Color("#0070F3") // blue for the cursor row

	// Status colors
	colorSuccess = lipgloss.Color("#50E3C2") // teal for a passed command
	colorError   = lipgloss.Color("#E00")    // red for failures and errors
	colorRunning = lipgloss.Color("#0070F3") // blue while a command is on the wire
	colorPending = lipgloss.Color("#666666") // gray for queued commands
	colorBoard   = lipgloss.Color("#F5A623") // orange badge for detected boards
)

// Layout styles
var (
	// Main container with border
	containerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	// Header style ("Select a port", "Connected to ...")
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg).
			Padding(0, 1)

	// Subheader/muted text
	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Footer key hints
	hintStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)

// List styles
var (
	// Selected item in a list
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Bold(true)

	// Unselected item in a list
	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	// Cursor pointer
	cursorStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true)

	// marks ports whose VID/PID match a signal generator board
	boardBadgeStyle = lipgloss.NewStyle().
			Foreground(colorBoard).
			Bold(true)
)

// Status indicator styles
var (
	pendingStyle = lipgloss.NewStyle().
			Foreground(colorPending)

	runningStyle = lipgloss.NewStyle().
			Foreground(colorRunning).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)

// Runner styles
var (
	// Wire form of a command, e.g. $FCS,0,50.00
	wireStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Commander narration lines
	logContentStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	// Indented log line
	logIndent = "   "
)

// Status icons
const (
	iconPending = "○"
	iconSuccess = "✓"
	iconFail    = "✕"
	// the running icon is the spinner frame
)

// Helper functions
func renderCursor(active bool) string {
	if active {
		return cursorStyle.Render("▸")
	}
	return " "
}

func renderCheckbox(checked bool) string {
	if checked {
		return successStyle.Render("[✓]")
	}
	return mutedStyle.Render("[ ]")
}

func renderItem(text string, active bool) string {
	if active {
		return selectedItemStyle.Render(text)
	}
	return normalItemStyle.Render(text)
}

func renderStatusIcon(status CommandStatus, spinnerView string) string {
	switch status {
	case StatusRunning:
		return runningStyle.Render(spinnerView)
	case StatusPass:
		return successStyle.Render(iconSuccess)
	case StatusFail:
		return errorStyle.Render(iconFail)
	default:
		return pendingStyle.Render(iconPending)
	}
}

func renderCommandName(name string, status CommandStatus) string {
	switch status {
	case StatusPass:
		return successStyle.Render(name)
	case StatusFail:
		return errorStyle.Render(name)
	case StatusRunning:
		return runningStyle.Render(name)
	default:
		return mutedStyle.Render(name)
	}
}

func renderHint(text string) string {
	return hintStyle.Render(text)
}
