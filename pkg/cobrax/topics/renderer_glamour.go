package topics

import (
	"github.com/charmbracelet/glamour"
)

// GlamourRenderer uses the glamour library for rich markdown rendering
type GlamourRenderer struct {
	Style string // Style name: "dark", "light", "notty", "auto", or path to custom style
	Width int    // Word wrap width (0 = glamour default)
}

// NewGlamourRenderer creates a markdown renderer using glamour. Color off
// selects the notty style.
func NewGlamourRenderer(color bool) *GlamourRenderer {
	style := "auto"
	if !color {
		style = "notty"
	}
	return &GlamourRenderer{Style: style, Width: 80}
}

// Render converts markdown to terminal output. Other formats and render
// failures return the content unchanged.
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	switch r.Style {
	case "", "auto":
		options = append(options, glamour.WithAutoStyle())
	default:
		options = append(options, glamour.WithStandardStyle(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
