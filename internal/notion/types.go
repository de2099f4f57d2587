package notion

import (
	"encoding/json"
	"time"
)

// Block is one element of a page's content tree. Exactly one payload field
// is populated, selected by Type; blocks of unrecognized types keep all
// payloads nil and degrade to empty output downstream.
type Block struct {
	ID          string
	Type        string
	HasChildren bool

	Text     *TextPayload
	Media    *MediaPayload
	Equation *EquationPayload
	Link     *LinkPayload
}

// Kind groups block types by payload shape.
type Kind int

const (
	KindText Kind = iota // rich_text payload: paragraph, headings, lists, quote, code, to_do, ...
	KindMedia
	KindDivider
	KindEquation
	KindLink
)

// KindOf maps a block type to its payload kind. Unknown types map to
// KindText; their payload simply decodes to no rich text.
func KindOf(typ string) Kind {
	switch typ {
	case "image", "video", "file", "pdf":
		return KindMedia
	case "divider":
		return KindDivider
	case "equation":
		return KindEquation
	case "bookmark", "embed", "link_preview":
		return KindLink
	default:
		return KindText
	}
}

// TextPayload is the payload of every rich-text-bearing block type.
// Checked is only meaningful for to_do blocks, Language only for code.
type TextPayload struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Language string     `json:"language"`
}

// MediaPayload is the payload of image, video, file, and pdf blocks.
type MediaPayload struct {
	Kind     string    `json:"type"` // "external" or "file"
	External *FileLink `json:"external"`
	File     *FileLink `json:"file"`
}

// FileLink points at media content, either externally linked or hosted by
// the API (hosted URLs expire).
type FileLink struct {
	URL        string    `json:"url"`
	ExpiryTime time.Time `json:"expiry_time"`
}

// URL resolves the media source URL. It returns "" when the source kind is
// unrecognized or the matching reference is missing.
func (m *MediaPayload) URL() string {
	switch m.Kind {
	case "external":
		if m.External != nil {
			return m.External.URL
		}
	case "file":
		if m.File != nil {
			return m.File.URL
		}
	}
	return ""
}

// EquationPayload is the payload of equation blocks.
type EquationPayload struct {
	Expression string `json:"expression"`
}

// LinkPayload is the payload of bookmark, embed, and link_preview blocks.
type LinkPayload struct {
	URL string `json:"url"`
}

// RichText is a contiguous span of inline text sharing one annotation set.
type RichText struct {
	PlainText   string      `json:"plain_text"`
	Annotations Annotations `json:"annotations"`
	Href        string      `json:"href"`
}

// Annotations are the boolean styling flags attached to a rich text span.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// UnmarshalJSON decodes the block header, then the type-specific payload
// keyed by the block's own type name.
func (b *Block) UnmarshalJSON(data []byte) error {
	var head struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		HasChildren bool   `json:"has_children"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	b.ID = head.ID
	b.Type = head.Type
	b.HasChildren = head.HasChildren

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	payload, ok := fields[b.Type]
	if !ok {
		return nil
	}

	switch KindOf(b.Type) {
	case KindMedia:
		b.Media = &MediaPayload{}
		return json.Unmarshal(payload, b.Media)
	case KindEquation:
		b.Equation = &EquationPayload{}
		return json.Unmarshal(payload, b.Equation)
	case KindLink:
		b.Link = &LinkPayload{}
		return json.Unmarshal(payload, b.Link)
	case KindDivider:
		return nil
	default:
		b.Text = &TextPayload{}
		return json.Unmarshal(payload, b.Text)
	}
}

// Page holds the page metadata used for frontmatter.
type Page struct {
	ID             string
	URL            string
	CreatedTime    time.Time
	LastEditedTime time.Time
	Title          string
}

type pageProperty struct {
	Type  string     `json:"type"`
	Title []RichText `json:"title"`
}

// UnmarshalJSON extracts the page header plus the title from whichever
// property carries the title type.
func (p *Page) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID             string                  `json:"id"`
		URL            string                  `json:"url"`
		CreatedTime    time.Time               `json:"created_time"`
		LastEditedTime time.Time               `json:"last_edited_time"`
		Properties     map[string]pageProperty `json:"properties"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.ID = raw.ID
	p.URL = raw.URL
	p.CreatedTime = raw.CreatedTime
	p.LastEditedTime = raw.LastEditedTime
	for _, prop := range raw.Properties {
		if prop.Type != "title" {
			continue
		}
		title := ""
		for _, rt := range prop.Title {
			title += rt.PlainText
		}
		p.Title = title
		break
	}
	return nil
}
