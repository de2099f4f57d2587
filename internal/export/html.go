package export

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// htmlRenderer is shared across calls; goldmark.Markdown is safe for
// concurrent use. GFM covers the strikethrough and task-list syntax the
// converter emits.
var htmlRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// HTML renders produced Markdown into an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
