// Package tomd converts Notion block trees into Markdown: it walks a page
// depth-first, fetching children on demand, renders each block by type, and
// serializes the resulting fragment tree with nesting-aware indentation.
package tomd

import (
	"context"
	"fmt"

	"github.com/sll518/notion-to-md/internal/notion"
)

// Fragment is the rendered form of one block. Children hold the rendered
// forms of its fetched descendants, in source order; Content may be empty
// for blocks that exist only to hold children.
type Fragment struct {
	Content  string
	Children []Fragment
}

// Config carries the converter's collaborators.
type Config struct {
	Client notion.ChildFetcher
}

// Option adjusts converter behavior.
type Option func(*Converter)

// WithOrderedLists numbers consecutive numbered_list_item siblings instead
// of rendering them as plain bullets.
func WithOrderedLists() Option {
	return func(c *Converter) { c.ordered = true }
}

// Converter walks a page's block tree and renders it. Each conversion call
// owns its own fragment tree; a single Converter is safe for concurrent use.
type Converter struct {
	client  notion.ChildFetcher
	ordered bool
}

func New(cfg Config, opts ...Option) *Converter {
	c := &Converter{client: cfg.Client}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageToMarkdown converts a page's whole block tree into one Markdown
// string.
func (c *Converter) PageToMarkdown(ctx context.Context, pageID string) (string, error) {
	frags, err := c.PageFragments(ctx, pageID)
	if err != nil {
		return "", err
	}
	return Serialize(frags), nil
}

// PageFragments converts a page's block tree into the intermediate fragment
// form, for callers that post-process before serializing.
func (c *Converter) PageFragments(ctx context.Context, pageID string) ([]Fragment, error) {
	if c.client == nil {
		return nil, ErrNoClient
	}
	blocks, err := c.client.BlockChildren(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("fetch page blocks: %w", err)
	}
	return c.ConvertBlocks(ctx, blocks)
}

// ConvertBlocks renders a block sequence, recursively fetching and
// converting children. Fragment order mirrors input order; each recursive
// call returns a freshly owned slice that the caller appends. Any render or
// fetch failure aborts the conversion, so callers never receive a tree
// silently missing a subtree.
func (c *Converter) ConvertBlocks(ctx context.Context, blocks []notion.Block) ([]Fragment, error) {
	if c.client == nil {
		return nil, ErrNoClient
	}
	frags := make([]Fragment, 0, len(blocks))
	ordinal := 0
	for i := range blocks {
		b := &blocks[i]
		if c.ordered && b.Type == "numbered_list_item" {
			ordinal++
		} else {
			ordinal = 0
		}

		content, err := renderBlock(b, ordinal)
		if err != nil {
			return nil, err
		}
		frag := Fragment{Content: content}

		if b.HasChildren {
			children, err := c.client.BlockChildren(ctx, b.ID)
			if err != nil {
				return nil, fmt.Errorf("fetch children of %s: %w", b.ID, err)
			}
			frag.Children, err = c.ConvertBlocks(ctx, children)
			if err != nil {
				return nil, err
			}
		}
		frags = append(frags, frag)
	}
	return frags, nil
}
