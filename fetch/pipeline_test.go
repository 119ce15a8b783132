package fetch_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/fetch"
	"github.com/fwojciec/pagemd/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExtractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(html string) (*pagemd.ExtractResult, error) {
			return &pagemd.ExtractResult{Title: "T", ContentHTML: html}, nil
		},
	}
}

func testConverter() *mock.Converter {
	return &mock.Converter{
		ConvertFn: func(html string) (string, error) { return "md:" + html, nil },
	}
}

func TestPipeline_FetchAll_returns_pages_in_input_order(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			return "body of " + url, nil
		},
	}
	p := fetch.NewPipeline(fetcher, testExtractor(), testConverter())

	urls := []string{"https://x.dev/a", "https://x.dev/b", "https://x.dev/c"}
	pages, err := p.FetchAll(context.Background(), urls, nil)
	require.NoError(t, err)

	require.Len(t, pages, 3)
	for i, page := range pages {
		assert.Equal(t, urls[i], page.URL)
		assert.Equal(t, "md:body of "+urls[i], page.Markdown)
		assert.Equal(t, "T", page.Title)
	}
}

func TestPipeline_FetchAll_skips_failed_pages(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			if url == "https://x.dev/bad" {
				return "", pagemd.Errorf(pagemd.EUNAVAILABLE, "HTTP 500 for %s", url)
			}
			return "ok", nil
		},
	}
	p := fetch.NewPipeline(fetcher, testExtractor(), testConverter(),
		fetch.WithRetryDelays(nil))

	var mu sync.Mutex
	var failures []string
	progress := func(fp pagemd.FetchProgress) {
		if fp.Error != nil {
			mu.Lock()
			failures = append(failures, fp.URL)
			mu.Unlock()
		}
	}

	pages, err := p.FetchAll(context.Background(), []string{
		"https://x.dev/good", "https://x.dev/bad", "https://x.dev/also-good",
	}, progress)
	require.NoError(t, err, "per-page failures are not fatal")

	require.Len(t, pages, 2)
	assert.Equal(t, "https://x.dev/good", pages[0].URL)
	assert.Equal(t, "https://x.dev/also-good", pages[1].URL)
	assert.Equal(t, []string{"https://x.dev/bad"}, failures)
}

func TestPipeline_FetchAll_reports_progress_counts(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(context.Context, string) (string, error) { return "ok", nil },
	}
	p := fetch.NewPipeline(fetcher, testExtractor(), testConverter())

	var mu sync.Mutex
	var completions []int
	progress := func(fp pagemd.FetchProgress) {
		mu.Lock()
		completions = append(completions, fp.Completed)
		mu.Unlock()
		assert.Equal(t, 4, fp.Total)
	}

	urls := make([]string, 4)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://x.dev/p%d", i)
	}
	_, err := p.FetchAll(context.Background(), urls, progress)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{1, 2, 3, 4}, completions)
}

func TestPipeline_FetchAll_retries_transient_failures(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	attempts := 0
	fetcher := &mock.Fetcher{
		FetchFn: func(context.Context, string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			attempts++
			if attempts < 3 {
				return "", pagemd.Errorf(pagemd.EUNAVAILABLE, "flaky")
			}
			return "ok", nil
		},
	}
	p := fetch.NewPipeline(fetcher, testExtractor(), testConverter(),
		fetch.WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond}))

	pages, err := p.FetchAll(context.Background(), []string{"https://x.dev/flaky"}, nil)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 3, attempts)
}

func TestPipeline_FetchAll_cancelled_context_aborts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, _ string) (string, error) {
			cancel()
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	p := fetch.NewPipeline(fetcher, testExtractor(), testConverter(),
		fetch.WithRetryDelays(nil), fetch.WithConcurrency(1))

	_, err := p.FetchAll(ctx, []string{"https://x.dev/a", "https://x.dev/b"}, nil)
	require.Error(t, err)
}

func TestPipeline_FetchAll_bounds_concurrency(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	fetcher := &mock.Fetcher{
		FetchFn: func(context.Context, string) (string, error) {
			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return "ok", nil
		},
	}
	p := fetch.NewPipeline(fetcher, testExtractor(), testConverter(),
		fetch.WithConcurrency(2))

	urls := make([]string, 8)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://x.dev/p%d", i)
	}
	_, err := p.FetchAll(context.Background(), urls, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, maxInFlight, 2)
}

func TestDomainLimiter_spaces_requests_to_same_host(t *testing.T) {
	t.Parallel()

	l := fetch.NewDomainLimiter(20) // 50ms between requests

	start := time.Now()
	require.NoError(t, l.Wait(context.Background(), "https://x.dev/a"))
	require.NoError(t, l.Wait(context.Background(), "https://x.dev/b"))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestDomainLimiter_hosts_are_independent(t *testing.T) {
	t.Parallel()

	l := fetch.NewDomainLimiter(1) // 1s between same-host requests

	start := time.Now()
	require.NoError(t, l.Wait(context.Background(), "https://a.dev/x"))
	require.NoError(t, l.Wait(context.Background(), "https://b.dev/x"))
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 500*time.Millisecond, "different hosts must not queue behind each other")
}

func TestDomainLimiter_Wait_honors_cancelled_context(t *testing.T) {
	t.Parallel()

	l := fetch.NewDomainLimiter(0.1)
	require.NoError(t, l.Wait(context.Background(), "https://slow.dev/a"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "https://slow.dev/b"))
}
