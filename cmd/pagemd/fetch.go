package main

import (
	"fmt"

	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/fetch"
	pagemdhttp "github.com/fwojciec/pagemd/http"
	"github.com/fwojciec/pagemd/htmltomarkdown"
	"github.com/fwojciec/pagemd/readability"
	pagemdslog "github.com/fwojciec/pagemd/slog"
	"github.com/fwojciec/pagemd/trafilatura"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	fetcher := pagemdhttp.NewFetcher()
	defer fetcher.Close()

	extractor := readability.NewFallback(trafilatura.NewExtractor(), readability.NewExtractor())
	converter := pagemdslog.NewLoggingConverter(htmltomarkdown.NewConverter(), deps.Logger)

	pipeline := fetch.NewPipeline(fetcher, extractor, converter,
		fetch.WithConcurrency(c.Concurrency),
		fetch.WithDomainLimiter(fetch.NewDomainLimiter(c.RPS)),
	)

	progress := func(p pagemd.FetchProgress) {
		if p.Error != nil {
			fmt.Fprintf(deps.Stderr, "skip %s: %v\n", p.URL, p.Error)
		}
	}

	pages, err := pipeline.FetchAll(deps.Ctx, c.URLs, progress)
	if err != nil {
		return err
	}

	for i, page := range pages {
		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		doc := pagemd.ContentRecord{
			Title: page.Title,
			URL:   page.URL,
			Body:  page.Markdown,
		}
		if doc.Title == "" {
			doc.Title = page.URL
		}
		assembled, err := pagemd.NewAssembler(converter).Assemble(doc)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "skip %s: %v\n", page.URL, err)
			continue
		}
		fmt.Fprintln(deps.Stdout, assembled.Markdown)
	}

	fmt.Fprintf(deps.Stderr, "Fetched %d/%d pages\n", len(pages), len(c.URLs))
	return nil
}
