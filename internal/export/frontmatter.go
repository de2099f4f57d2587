// Package export assembles final output documents from converted Markdown:
// an optional YAML frontmatter header and an optional HTML rendering.
package export

import (
	"fmt"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/sll518/notion-to-md/internal/notion"
)

// FrontMatter is the metadata header prepended to exported Markdown.
type FrontMatter struct {
	Title          string    `yaml:"title,omitempty"`
	NotionID       string    `yaml:"notion_id"`
	URL            string    `yaml:"url,omitempty"`
	CreatedTime    time.Time `yaml:"created_time"`
	LastEditedTime time.Time `yaml:"last_edited_time"`
}

// FromPage builds frontmatter from page metadata.
func FromPage(p *notion.Page) FrontMatter {
	return FrontMatter{
		Title:          p.Title,
		NotionID:       p.ID,
		URL:            p.URL,
		CreatedTime:    p.CreatedTime,
		LastEditedTime: p.LastEditedTime,
	}
}

// Markdown returns the document, prefixed with a YAML frontmatter header
// when fm is non-nil.
func Markdown(markdown string, fm *FrontMatter) (string, error) {
	if fm == nil {
		return markdown, nil
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	return "---\n" + string(header) + "---\n\n" + markdown, nil
}
