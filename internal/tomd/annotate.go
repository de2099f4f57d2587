package tomd

import (
	"strings"
	"unicode"

	"github.com/sll518/notion-to-md/internal/md"
	"github.com/sll518/notion-to-md/internal/notion"
)

// applyAnnotations styles one text run. Whitespace-only runs come back
// unchanged regardless of flags; otherwise the trimmed core is styled and
// the original leading/trailing whitespace reattached outside the markers.
//
// Wrapping order is fixed: code, bold, italic, strikethrough, underline.
// Code spans go innermost so no other delimiter ever lands inside them.
func applyAnnotations(text string, a notion.Annotations) string {
	core := strings.TrimFunc(text, unicode.IsSpace)
	if core == "" {
		return text
	}
	lead := text[:len(text)-len(strings.TrimLeftFunc(text, unicode.IsSpace))]
	trail := text[len(strings.TrimRightFunc(text, unicode.IsSpace)):]

	if a.Code {
		core = md.InlineCode(core)
	}
	if a.Bold {
		core = md.Bold(core)
	}
	if a.Italic {
		core = md.Italic(core)
	}
	if a.Strikethrough {
		core = md.Strikethrough(core)
	}
	if a.Underline {
		core = md.Underline(core)
	}

	return lead + core + trail
}
