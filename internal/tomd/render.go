package tomd

import (
	"strings"

	"github.com/sll518/notion-to-md/internal/md"
	"github.com/sll518/notion-to-md/internal/notion"
)

// renderBlock converts a single block, children excluded, into Markdown.
// ordinal is the 1-based position among consecutive numbered list items;
// 0 means render numbered items as plain bullets.
func renderBlock(b *notion.Block, ordinal int) (string, error) {
	if b == nil {
		return "", ErrNilBlock
	}
	return wrapBlock(b, extractContent(b), ordinal), nil
}

// extractContent produces a block's raw textual content, without any
// block-level wrapping. Unknown types and unrecognized payload shapes
// resolve to the empty string rather than an error, so a single odd block
// never aborts the document.
func extractContent(b *notion.Block) string {
	switch notion.KindOf(b.Type) {
	case notion.KindMedia:
		return mediaContent(b)
	case notion.KindDivider:
		return md.Divider()
	case notion.KindEquation:
		if b.Equation == nil {
			return ""
		}
		return md.CodeBlock(b.Equation.Expression, "")
	case notion.KindLink:
		if b.Link == nil || b.Link.URL == "" {
			return ""
		}
		return md.Link(b.Type, b.Link.URL)
	default:
		return richTextContent(b)
	}
}

func mediaContent(b *notion.Block) string {
	if b.Media == nil {
		return ""
	}
	u := b.Media.URL()
	if u == "" {
		return ""
	}
	if b.Type == "image" {
		return md.Image("image", u)
	}
	return md.Link(b.Type, u)
}

func richTextContent(b *notion.Block) string {
	if b.Text == nil {
		return ""
	}
	var sb strings.Builder
	for _, run := range b.Text.RichText {
		styled := applyAnnotations(run.PlainText, run.Annotations)
		if run.Href != "" {
			styled = md.Link(styled, run.Href)
		}
		sb.WriteString(styled)
	}
	return sb.String()
}

// wrapBlock applies block-level markup around already-extracted content.
// Types without a block form pass content through untouched.
func wrapBlock(b *notion.Block, content string, ordinal int) string {
	switch b.Type {
	case "code":
		lang := ""
		if b.Text != nil {
			lang = b.Text.Language
		}
		return md.CodeBlock(content, lang)
	case "heading_1":
		return md.Heading(1, content)
	case "heading_2":
		return md.Heading(2, content)
	case "heading_3":
		return md.Heading(3, content)
	case "quote":
		return md.Quote(content)
	case "bulleted_list_item":
		return md.Bullet(content)
	case "numbered_list_item":
		if ordinal > 0 {
			return md.NumberedItem(ordinal, content)
		}
		return md.Bullet(content)
	case "to_do":
		checked := b.Text != nil && b.Text.Checked
		return md.Todo(content, checked)
	default:
		return content
	}
}
