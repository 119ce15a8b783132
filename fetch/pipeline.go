// Package fetch orchestrates the page acquisition pipeline: fetch HTML,
// extract the main content, convert it to Markdown.
package fetch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/pagemd"
)

// DefaultConcurrency bounds simultaneous page fetches.
const DefaultConcurrency = 10

// DefaultRetryDelays are the waits between fetch attempts.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{time.Second, 3 * time.Second}
}

// Pipeline fetches pages concurrently and runs each through extraction and
// Markdown conversion. Failed pages are skipped (reported via progress),
// not fatal.
type Pipeline struct {
	fetcher     pagemd.Fetcher
	extractor   pagemd.Extractor
	converter   pagemd.Converter
	limiter     *DomainLimiter
	concurrency int
	retryDelays []time.Duration
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithConcurrency bounds simultaneous fetches. Defaults to
// DefaultConcurrency.
func WithConcurrency(n int) PipelineOption {
	return func(p *Pipeline) {
		p.concurrency = n
	}
}

// WithDomainLimiter applies per-domain politeness between fetches.
func WithDomainLimiter(l *DomainLimiter) PipelineOption {
	return func(p *Pipeline) {
		p.limiter = l
	}
}

// WithRetryDelays sets the waits between fetch attempts. Defaults to
// DefaultRetryDelays.
func WithRetryDelays(delays []time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.retryDelays = delays
	}
}

// NewPipeline creates a Pipeline with the given stages.
func NewPipeline(fetcher pagemd.Fetcher, extractor pagemd.Extractor, converter pagemd.Converter, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		fetcher:     fetcher,
		extractor:   extractor,
		converter:   converter,
		concurrency: DefaultConcurrency,
		retryDelays: DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchAll processes urls and returns the successfully converted pages in
// input order. Per-page failures are reported through progress and the
// page is dropped; only context cancellation aborts the batch.
func (p *Pipeline) FetchAll(ctx context.Context, urls []string, progress pagemd.FetchProgressFunc) ([]*pagemd.Page, error) {
	results := make([]*pagemd.Page, len(urls))
	total := len(urls)

	var mu sync.Mutex
	completed := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			page, err := p.fetchOne(ctx, u)
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			if err == nil {
				results[i] = page
			}

			mu.Lock()
			completed++
			done := completed
			mu.Unlock()

			if progress != nil {
				progress(pagemd.FetchProgress{
					URL:       u,
					Completed: done,
					Total:     total,
					Error:     err,
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	pages := make([]*pagemd.Page, 0, len(results))
	for _, page := range results {
		if page != nil {
			pages = append(pages, page)
		}
	}
	return pages, nil
}

func (p *Pipeline) fetchOne(ctx context.Context, url string) (*pagemd.Page, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, url); err != nil {
			return nil, err
		}
	}

	html, err := p.fetchWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}

	result, err := p.extractor.Extract(html)
	if err != nil {
		return nil, err
	}

	markdown, err := p.converter.Convert(result.ContentHTML)
	if err != nil {
		return nil, err
	}

	return &pagemd.Page{
		URL:      url,
		Title:    result.Title,
		Markdown: markdown,
	}, nil
}

// fetchWithRetry attempts the fetch once per retry delay plus the initial
// attempt, sleeping between attempts.
func (p *Pipeline) fetchWithRetry(ctx context.Context, url string) (string, error) {
	html, err := p.fetcher.Fetch(ctx, url)
	if err == nil {
		return html, nil
	}

	for _, delay := range p.retryDelays {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}

		html, err = p.fetcher.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
	}

	return "", err
}
