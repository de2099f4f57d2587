// Package md builds Markdown fragments. Every function is a pure string
// template; composition and escaping policy belong to the caller.
package md

import (
	"fmt"
	"strings"
)

func Bold(text string) string {
	return "**" + text + "**"
}

func Italic(text string) string {
	return "_" + text + "_"
}

func Strikethrough(text string) string {
	return "~~" + text + "~~"
}

// Underline has no native Markdown form; an inline HTML tag is the
// conventional rendering.
func Underline(text string) string {
	return "<u>" + text + "</u>"
}

func InlineCode(text string) string {
	return "`" + text + "`"
}

func Link(text, href string) string {
	return "[" + text + "](" + href + ")"
}

func Image(alt, href string) string {
	return "![" + alt + "](" + href + ")"
}

// CodeBlock fences text, tagged with language when non-empty.
func CodeBlock(text, language string) string {
	return "```" + language + "\n" + text + "\n```"
}

// Heading renders a level 1-3 heading. Levels outside that range clamp.
func Heading(level int, text string) string {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	return strings.Repeat("#", level) + " " + text
}

// Quote prefixes every line of text so multi-line quotes stay inside the
// block quote.
func Quote(text string) string {
	return "> " + strings.ReplaceAll(text, "\n", "  \n> ")
}

func Bullet(text string) string {
	return "- " + text
}

// NumberedItem renders an ordered list entry with an explicit 1-based
// ordinal.
func NumberedItem(ordinal int, text string) string {
	return fmt.Sprintf("%d. %s", ordinal, text)
}

// Todo renders a task list entry.
func Todo(text string, checked bool) string {
	if checked {
		return "- [x] " + text
	}
	return "- [ ] " + text
}

func Divider() string {
	return "---"
}
