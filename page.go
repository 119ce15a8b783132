package pagemd

import "context"

// Page represents a fetched and converted web page.
type Page struct {
	URL      string
	Title    string
	Markdown string
}

// ExtractResult holds the main content extracted from an HTML page with
// boilerplate (nav, footer, sidebar, ads) removed.
type ExtractResult struct {
	Title       string
	Author      string
	Published   string
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch returns the HTML body at url. The context controls timeout
	// and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// URLSource discovers content URLs for a site, typically from sitemaps.
type URLSource interface {
	Discover(ctx context.Context, baseURL string) ([]string, error)
}

// FetchProgress reports progress while fetching a batch of pages.
type FetchProgress struct {
	URL       string
	Completed int
	Total     int
	Error     error
}

// FetchProgressFunc is called as pages are processed.
type FetchProgressFunc func(FetchProgress)
