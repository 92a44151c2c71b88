package tui

import (
	"github.com/charmbracelet/glamour"
	"github.com/richfrem/quoteagent/pkg/runner"
)

// NewRenderer returns a markdown renderer for review summaries.
// If glamour cannot be initialised the summary is printed as-is.
func NewRenderer() runner.ContentRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
