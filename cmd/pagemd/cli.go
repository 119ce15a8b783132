package main

import (
	"context"
	"io"
	"log/slog"
)

// Dependencies holds shared state for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Convert  ConvertCmd  `cmd:"" help:"Convert HTML to Markdown"`
	Assemble AssembleCmd `cmd:"" help:"Assemble a content record into a Markdown document"`
	LLMsTxt  LLMsTxtCmd  `cmd:"" name:"llmstxt" help:"Generate llms.txt from a site's sitemap"`
	Fetch    FetchCmd    `cmd:"" help:"Fetch pages and print them as Markdown"`
	Serve    ServeCmd    `cmd:"" help:"Serve the pagemd HTTP endpoints"`
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	Path           string `arg:"" optional:"" help:"HTML file to convert (stdin when omitted)"`
	Strategy       string `short:"s" default:"auto" enum:"auto,tree,pattern" help:"Conversion strategy"`
	NoLinks        bool   `help:"Drop link targets, keep link text"`
	NoImages       bool   `help:"Omit images"`
	PreserveBreaks bool   `help:"Keep <br> as literal line breaks"`
}

// AssembleCmd is the "assemble" subcommand.
type AssembleCmd struct {
	Path  string `arg:"" help:"JSON content record file"`
	TOC   bool   `help:"Print the nested table of contents instead of the document"`
	Plain bool   `help:"Print the plain-text derivative instead of Markdown"`
	WPM   int    `default:"200" help:"Words per minute for the reading-time estimate"`
}

// LLMsTxtCmd is the "llmstxt" subcommand.
type LLMsTxtCmd struct {
	URL         string `arg:"" help:"Site base URL"`
	Name        string `short:"n" help:"Site name (defaults to the host)"`
	Description string `short:"d" help:"Site description"`
	Limit       int    `short:"l" default:"0" help:"Maximum number of entries (0 = all)"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URLs        []string `arg:"" help:"Page URLs to fetch"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`
	RPS         float64  `default:"2" help:"Per-domain requests per second"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}
