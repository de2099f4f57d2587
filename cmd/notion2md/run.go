package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sll518/notion-to-md/internal/export"
	"github.com/sll518/notion-to-md/internal/notion"
	"github.com/sll518/notion-to-md/internal/tomd"
)

var (
	errNoPage  = errors.New("a page ID or URL is required (--page)")
	errNoToken = errors.New("a Notion API token is required (--token or NOTION_API_KEY)")
)

func run(f cliFlags) error {
	if f.page == "" {
		return errNoPage
	}
	if f.token == "" {
		return errNoToken
	}
	if f.format != "markdown" && f.format != "html" {
		return fmt.Errorf("unsupported format %q (want markdown or html)", f.format)
	}

	pageID, err := notion.NormalizeID(f.page)
	if err != nil {
		return err
	}

	client := notion.NewClient(f.token)
	defer client.Close()

	var opts []tomd.Option
	if f.ordered {
		opts = append(opts, tomd.WithOrderedLists())
	}
	conv := tomd.New(tomd.Config{Client: client}, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	markdown, err := conv.PageToMarkdown(ctx, pageID)
	if err != nil {
		return err
	}

	if f.frontmatter && f.format == "markdown" {
		page, err := client.Page(ctx, pageID)
		if err != nil {
			return err
		}
		fm := export.FromPage(page)
		markdown, err = export.Markdown(markdown, &fm)
		if err != nil {
			return err
		}
	}

	content := markdown
	if f.format == "html" {
		content, err = export.HTML(markdown)
		if err != nil {
			return err
		}
	}

	if f.out == "" {
		fmt.Print(content)
		return nil
	}
	if err := os.WriteFile(f.out, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", f.out)
	return nil
}
