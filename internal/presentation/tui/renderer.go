// Package tui renders terminal output: glamour-styled reports and the startup banner.
package tui

import (
	"fmt"
	"os"

	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/aretw0/stockcheck/pkg/report"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders reports as styled markdown.
// The style follows the terminal background.
func NewRenderer() (func(domain.Report) (string, error), error) {
	return newRenderer(glamour.WithAutoStyle())
}

// NewPlainRenderer renders without colors, for pipes and tests.
func NewPlainRenderer() (func(domain.Report) (string, error), error) {
	return newRenderer(glamour.WithStandardStyle("notty"))
}

func newRenderer(style glamour.TermRendererOption) (func(domain.Report) (string, error), error) {
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return func(rep domain.Report) (string, error) {
		return r.Render(report.Markdown(rep))
	}, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
