package main

import (
	"os"
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds the parsed command line.
type cliFlags struct {
	page        string
	out         string
	format      string
	frontmatter bool
	ordered     bool
	token       string
	timeout     time.Duration
}

func parseFlags(args []string) (cliFlags, error) {
	fs := flag.NewFlagSet("notion2md", flag.ContinueOnError)
	var f cliFlags
	fs.StringVarP(&f.page, "page", "p", "", "page ID or URL to convert (required)")
	fs.StringVarP(&f.out, "out", "o", "", "output file (default stdout)")
	fs.StringVar(&f.format, "format", "markdown", "output format: markdown or html")
	fs.BoolVar(&f.frontmatter, "frontmatter", false, "prepend YAML frontmatter with page metadata")
	fs.BoolVar(&f.ordered, "ordered", false, "number consecutive numbered list items")
	fs.StringVar(&f.token, "token", os.Getenv("NOTION_API_KEY"), "Notion API token (default $NOTION_API_KEY)")
	fs.DurationVar(&f.timeout, "timeout", 2*time.Minute, "overall conversion timeout")

	if err := fs.Parse(args[1:]); err != nil {
		return f, err
	}
	// Allow the page as a bare positional argument too.
	if f.page == "" && fs.NArg() > 0 {
		f.page = fs.Arg(0)
	}
	return f, nil
}
