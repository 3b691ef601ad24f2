package color

import (
	"github.com/charmbracelet/lipgloss"
)

// Semantic adaptive colors. Each pair is (light background, dark background).
var (
	successColor = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	warningColor = lipgloss.AdaptiveColor{Light: "#F57F17", Dark: "#FFD54F"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E57373"}
	infoColor    = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#64B5F6"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
)

// Styles used across the CLI output.
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(successColor)
	WarningStyle = lipgloss.NewStyle().Foreground(warningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(infoColor)
	MutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	HeaderStyle  = lipgloss.NewStyle().Bold(true)
)

// Initialize pins the background mode so adaptive colors resolve consistently
// for the rest of the process.
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}

// Success renders text in the success style.
func Success(text string) string {
	return SuccessStyle.Render(text)
}

// Warning renders text in the warning style.
func Warning(text string) string {
	return WarningStyle.Render(text)
}

// Error renders text in the error style.
func Error(text string) string {
	return ErrorStyle.Render(text)
}

// Info renders text in the info style.
func Info(text string) string {
	return InfoStyle.Render(text)
}

// Muted renders text in the muted style.
func Muted(text string) string {
	return MutedStyle.Render(text)
}

// Header renders text in the header style.
func Header(text string) string {
	return HeaderStyle.Render(text)
}
