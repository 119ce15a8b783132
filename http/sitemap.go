package http

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/bloom"
)

// Ensure SitemapSource implements pagemd.URLSource at compile time.
var _ pagemd.URLSource = (*SitemapSource)(nil)

// expectedURLs sizes the dedup filter; sites larger than this only pay a
// slightly higher false-positive rate.
const expectedURLs = 100_000

// SitemapSource discovers content URLs from a site's sitemaps. Sitemap
// locations come from robots.txt Sitemap: directives, falling back to
// /sitemap.xml. Sitemap index files are followed recursively.
type SitemapSource struct {
	client *http.Client
}

// NewSitemapSource creates a SitemapSource. A nil client uses
// http.DefaultClient.
func NewSitemapSource(client *http.Client) *SitemapSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapSource{client: client}
}

// Discover returns the site's page URLs in sitemap order, deduplicated
// across sitemaps. When baseURL carries a non-root path (e.g.
// https://example.com/blog/), only URLs under that prefix are returned.
// A site without sitemaps yields an empty slice, not an error.
func (s *SitemapSource) Discover(ctx context.Context, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, pagemd.Errorf(pagemd.EINVALID, "invalid base URL: %v", err)
	}

	pathPrefix := base.Path
	if pathPrefix == "/" {
		pathPrefix = ""
	}

	root := *base
	root.Path = ""

	sitemapURLs, err := s.findSitemaps(ctx, &root)
	if err != nil {
		return nil, err
	}
	if len(sitemapURLs) == 0 {
		return []string{}, nil
	}

	// The Bloom filter dedups page URLs across sitemaps; a false positive
	// drops a single page, which is acceptable for listing generation.
	// Sitemap recursion uses an exact set because a false positive there
	// would skip a whole sitemap.
	seenPages := bloom.NewFilter(expectedURLs, 0.001)
	seenSitemaps := make(map[string]bool)

	var all []string
	for _, su := range sitemapURLs {
		urls, err := s.walkSitemap(ctx, su, seenSitemaps)
		if err != nil {
			return nil, err
		}
		for _, u := range urls {
			if seenPages.Test(u) {
				continue
			}
			seenPages.Add(u)
			all = append(all, u)
		}
	}

	if pathPrefix == "" {
		return all, nil
	}

	prefix := pathPrefix
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	var filtered []string
	for _, u := range all {
		parsed, err := url.Parse(u)
		if err != nil {
			continue
		}
		if strings.HasPrefix(parsed.Path, prefix) || parsed.Path == pathPrefix {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// findSitemaps locates sitemap URLs from robots.txt, falling back to
// /sitemap.xml when robots.txt has no Sitemap: directives.
func (s *SitemapSource) findSitemaps(ctx context.Context, root *url.URL) ([]string, error) {
	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"})
	if sitemaps, err := s.sitemapsFromRobots(ctx, robotsURL.String()); err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	resp, err := s.get(ctx, fallback.String())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	resp.Close()
	return []string{fallback.String()}, nil
}

// sitemapsFromRobots extracts Sitemap: directives from robots.txt.
func (s *SitemapSource) sitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
				sitemaps = append(sitemaps, u)
			}
		}
	}
	return sitemaps, scanner.Err()
}

// walkSitemap fetches one sitemap and returns its page URLs, recursing
// into sitemap index entries.
func (s *SitemapSource) walkSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, pagemd.Errorf(pagemd.EINVALID, "parsing sitemap XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, nil
	}

	switch root.Tag {
	case "urlset":
		var urls []string
		for _, el := range root.SelectElements("url") {
			if loc := el.SelectElement("loc"); loc != nil {
				if u := strings.TrimSpace(loc.Text()); u != "" {
					urls = append(urls, u)
				}
			}
		}
		return urls, nil

	case "sitemapindex":
		var urls []string
		for _, el := range root.SelectElements("sitemap") {
			loc := el.SelectElement("loc")
			if loc == nil {
				continue
			}
			nested, err := s.walkSitemap(ctx, strings.TrimSpace(loc.Text()), seen)
			if err != nil {
				return nil, err
			}
			urls = append(urls, nested...)
		}
		return urls, nil
	}

	return nil, nil
}

func (s *SitemapSource) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, pagemd.Errorf(pagemd.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, rawURL)
	}
	return resp.Body, nil
}
