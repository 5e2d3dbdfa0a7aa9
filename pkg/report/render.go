package report

import (
	"strings"

	"github.com/aretw0/stockcheck/pkg/domain"
)

const (
	title     = "📦 Отчет:"
	lowTitle  = "⚠️ МАЛО:"
	allNormal = "✅ Всё в норме"
)

// Text renders the report as plain chat text.
func Text(r domain.Report) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	for _, line := range r.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if r.OK() {
		b.WriteString("\n")
		b.WriteString(allNormal)
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(lowTitle)
	b.WriteString("\n")
	for _, name := range r.Deficient {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	return b.String()
}

// Markdown renders the report for terminal display.
func Markdown(r domain.Report) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n")
	for _, line := range r.Lines {
		b.WriteString("- ")
		b.WriteString(escape(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if r.OK() {
		b.WriteString("**")
		b.WriteString(allNormal)
		b.WriteString("**\n")
		return b.String()
	}

	b.WriteString("## ")
	b.WriteString(lowTitle)
	b.WriteString("\n\n")
	for _, name := range r.Deficient {
		b.WriteString("- **")
		b.WriteString(escape(name))
		b.WriteString("**\n")
	}
	return b.String()
}

var mdEscaper = strings.NewReplacer(`*`, `\*`, `_`, `\_`, "`", "\\`", `#`, `\#`)

func escape(s string) string {
	return mdEscaper.Replace(s)
}
