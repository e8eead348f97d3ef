package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Base16 color palette with orange, brown, yellow, and pink tones
// Based on Autumn theme with warm earth tones
var (
	// Base colors (backgrounds and text)
	ColorBase00 = lipgloss.Color("#1a1816") // Dark background
	ColorBase01 = lipgloss.Color("#282420") // Lighter background
	ColorBase02 = lipgloss.Color("#36302a") // Selection background
	ColorBase03 = lipgloss.Color("#5c5044") // Comments, invisibles
	ColorBase04 = lipgloss.Color("#83715f") // Dark foreground
	ColorBase05 = lipgloss.Color("#ab937b") // Default foreground
	ColorBase06 = lipgloss.Color("#d3b597") // Light foreground
	ColorBase07 = lipgloss.Color("#f5d7b9") // Lightest foreground

	// Accent colors
	ColorRed    = lipgloss.Color("#d95f5f") // Errors
	ColorOrange = lipgloss.Color("#eb8755") // Focus, highlights
	ColorYellow = lipgloss.Color("#f5b761") // Warnings
	ColorGreen  = lipgloss.Color("#93b56b") // User text, success
	ColorCyan   = lipgloss.Color("#61afaf") // Informational text
	ColorBlue   = lipgloss.Color("#6b93b5") // Assistant text
	ColorPurple = lipgloss.Color("#976bb5") // System text
	ColorViolet = lipgloss.Color("#6c71c4") // Spinner

	// UI specific colors
	ColorBorder  = ColorBase03
	ColorFocus   = ColorOrange
	ColorError   = ColorRed
	ColorSuccess = ColorGreen
	ColorInfo    = ColorCyan
	ColorMuted   = ColorBase03
)

// Styles defines the Lipgloss styles for the TUI components
type Styles struct {
	// Message styles
	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style
	SystemMessage    lipgloss.Style
	ErrorMessage     lipgloss.Style
	InfoMessage      lipgloss.Style
	DefaultMessage   lipgloss.Style

	// Input field styles
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// Focus states
	Focused   lipgloss.Style
	Unfocused lipgloss.Style
}

// DefaultStyles returns the default Lipgloss styles
func DefaultStyles() *Styles {
	return &Styles{
		UserMessage: lipgloss.NewStyle().
			Foreground(ColorGreen),

		AssistantMessage: lipgloss.NewStyle().
			Foreground(ColorBlue),

		SystemMessage: lipgloss.NewStyle().
			Foreground(ColorPurple),

		ErrorMessage: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		InfoMessage: lipgloss.NewStyle().
			Foreground(ColorInfo),

		DefaultMessage: lipgloss.NewStyle().
			Foreground(ColorBase05),

		InputPrompt: lipgloss.NewStyle().
			Foreground(ColorFocus).
			Bold(true),

		InputPlaceholder: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),

		Focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFocus),

		Unfocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBase03),
	}
}
