package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the startup banner and the command hint to w.
func PrintBanner(w io.Writer, version string) {
	// Ascii profile for non-terminals, so pipes get plain text.
	p := termenv.NewOutput(w).ColorProfile()

	title := p.String("  📦 stockcheck").Bold().Foreground(p.Color("#818cf8"))
	ver := p.String(" " + version).Faint()
	hint := p.String("  /count - начать учёт · /skip - оставить значение · exit - выход").Foreground(p.Color("#a78bfa"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, title.String()+ver.String())
	fmt.Fprintln(w, hint)
	fmt.Fprintln(w)
}
