package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// ColorEnabled reports whether styled output should be written to f:
// NO_COLOR is unset, f is a terminal and the terminal supports color.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if f == nil || (!isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())) {
		return false
	}
	return termenv.NewOutput(f).ColorProfile() != termenv.Ascii
}

// SetColor switches styling on or off for both lipgloss and pterm output
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).ColorProfile())
		pterm.EnableStyling()
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
	pterm.DisableStyling()
}
