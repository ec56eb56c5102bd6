package style

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// MarkupParser renders [tag]text[/tag] markup with lipgloss styles
type MarkupParser struct {
	styles   map[string]lipgloss.Style
	patterns map[string]*regexp.Regexp
}

// NewMarkupParser creates a new markup parser with default styles
func NewMarkupParser() *MarkupParser {
	p := &MarkupParser{
		styles:   make(map[string]lipgloss.Style),
		patterns: make(map[string]*regexp.Regexp),
	}
	for tag, style := range map[string]lipgloss.Style{
		"title":   TitleStyle,
		"success": SuccessStyle,
		"error":   ErrorStyle,
		"warning": WarningStyle,
		"info":    InfoStyle,
		"muted":   MutedStyle,
		"path":    PathStyle,
		"rule":    RuleStyle,
		"move":    MoveStyle,
		"trash":   TrashStyle,
		"mkdir":   MkdirStyle,
		"bold":    lipgloss.NewStyle().Bold(true),
	} {
		p.AddStyle(tag, style)
	}
	return p
}

// AddStyle registers or replaces the style for tag
func (p *MarkupParser) AddStyle(tag string, style lipgloss.Style) {
	p.styles[tag] = style
	p.patterns[tag] = regexp.MustCompile(`\[` + regexp.QuoteMeta(tag) + `\](.*?)\[/` + regexp.QuoteMeta(tag) + `\]`)
}

// Render processes markup text and returns styled output. Nested tags are
// resolved innermost first.
func (p *MarkupParser) Render(text string) string {
	result := text
	for {
		before := result
		for tag, pattern := range p.patterns {
			style := p.styles[tag]
			result = pattern.ReplaceAllStringFunc(result, func(match string) string {
				return style.Render(pattern.FindStringSubmatch(match)[1])
			})
		}
		if result == before {
			return result
		}
	}
}

var defaultParser = NewMarkupParser()

// Render is a convenience function using the default parser
func Render(text string) string {
	return defaultParser.Render(text)
}
