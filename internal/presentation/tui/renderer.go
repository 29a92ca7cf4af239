package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders replies as markdown using
// glamour. Cart totals are sent as *emphasis* and menus as plain lines, so
// word wrap is disabled to keep numbered options intact.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(0),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown + "\n\n", nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
