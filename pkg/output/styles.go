// Package output defines the terminal styling for upstack's command
// output. Styles use adaptive colors so they read well on light and dark
// terminals, and degrade to plain text when stdout is not a terminal.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#fafafa"})

	ProductStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#005f87", Dark: "#5fd7ff"})

	VersionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#5f5f00", Dark: "#d7d75f"})

	TagStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#870087", Dark: "#d75fd7"})

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#6c6c6c", Dark: "#8a8a8a"})

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#d70000", Dark: "#ff5f5f"})
)

// ColorEnabled reports whether styled output should be produced.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// Sprint renders text with the style when color is enabled, and passes it
// through untouched otherwise.
func Sprint(style lipgloss.Style, text string) string {
	if !ColorEnabled() {
		return text
	}
	return style.Render(text)
}
