package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fwojciec/pagemd"
	pagemdhttp "github.com/fwojciec/pagemd/http"
)

// Run executes the llmstxt command.
func (c *LLMsTxtCmd) Run(deps *Dependencies) error {
	base, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid site URL: %w", err)
	}

	source := pagemdhttp.NewSitemapSource(nil)
	urls, err := source.Discover(deps.Ctx, c.URL)
	if err != nil {
		return err
	}
	if c.Limit > 0 && len(urls) > c.Limit {
		urls = urls[:c.Limit]
	}

	name := c.Name
	if name == "" {
		name = base.Host
	}

	items := make([]pagemd.ContentItem, 0, len(urls))
	for _, u := range urls {
		items = append(items, pagemd.ContentItem{
			Title: titleFromURL(u),
			URL:   u,
		})
	}

	body, err := pagemd.GenerateLLMsTxt(pagemd.SiteListing{
		SiteName:    name,
		Description: c.Description,
		BaseURL:     c.URL,
		Items:       items,
	})
	if err != nil {
		return err
	}

	fmt.Fprint(deps.Stdout, body)
	return nil
}

// titleFromURL derives a readable title from a URL's final path segment.
func titleFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return rawURL
	}

	segment := strings.Trim(parsed.Path, "/")
	if i := strings.LastIndexByte(segment, '/'); i >= 0 {
		segment = segment[i+1:]
	}
	segment = strings.TrimSuffix(segment, ".html")

	words := strings.FieldsFunc(segment, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(words) == 0 {
		return rawURL
	}
	return strings.Join(words, " ")
}
