package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/htmlconv"
	pagemdhttp "github.com/fwojciec/pagemd/http"
	"github.com/fwojciec/pagemd/mem"
	pagemdslog "github.com/fwojciec/pagemd/slog"
	"github.com/fwojciec/pagemd/sqlite"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	cfg := LoadServeConfig()

	content, err := loadContent(cfg.ContentPath)
	if err != nil {
		return err
	}

	var store pagemd.EventStore = mem.NewEventStore()
	if cfg.DBPath != "" {
		db := sqlite.NewDB(cfg.DBPath)
		if err := db.Open(); err != nil {
			return fmt.Errorf("opening analytics database at %q: %w", cfg.DBPath, err)
		}
		defer db.Close()
		store = sqlite.NewEventStore(db)
	}
	store = pagemdslog.NewLoggingEventStore(store, deps.Logger)

	assembler := pagemd.NewAssembler(htmlconv.New(pagemd.DefaultConvertOptions()))
	limiter := pagemdhttp.NewRateLimiter(cfg.RateLimit, time.Duration(cfg.RateWindowSec)*time.Second)

	var handlerOpts []pagemdhttp.HandlerOption
	handlerOpts = append(handlerOpts, pagemdhttp.WithLogger(deps.Logger))
	if cfg.CacheControl != "" {
		handlerOpts = append(handlerOpts, pagemdhttp.WithCacheControl(cfg.CacheControl))
	}

	listing := func(context.Context) (*pagemd.SiteListing, error) {
		return siteListing(cfg, content), nil
	}
	lookup := func(_ context.Context, slug string) (*pagemd.ContentRecord, error) {
		rec, ok := content[slug]
		if !ok {
			return nil, pagemd.Errorf(pagemd.ENOTFOUND, "no content for slug %q", slug)
		}
		return &rec, nil
	}

	mux := http.NewServeMux()
	mux.Handle("GET /llms.txt", pagemdhttp.NewLLMSTxtHandler(listing, handlerOpts...))
	mux.Handle("GET /md/{slug}", pagemdhttp.NewMarkdownHandler(lookup, assembler, handlerOpts...))
	mux.Handle("/analytics", pagemdhttp.NewAnalyticsHandler(store, limiter, handlerOpts...))

	handler := pagemdhttp.LLMRewriteMiddleware(mux, func(originalPath string) string {
		return "/md" + originalPath
	})

	deps.Logger.Info("listening", "addr", cfg.Addr, "pages", len(content))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// loadContent reads the slug-to-record mapping served by the markdown
// endpoint. An empty path yields an empty site.
func loadContent(path string) (map[string]pagemd.ContentRecord, error) {
	if path == "" {
		return map[string]pagemd.ContentRecord{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file: %w", err)
	}

	var content map[string]pagemd.ContentRecord
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("decoding content file: %w", err)
	}
	return content, nil
}

// siteListing builds the llms.txt listing from the loaded content.
func siteListing(cfg ServeConfig, content map[string]pagemd.ContentRecord) *pagemd.SiteListing {
	items := make([]pagemd.ContentItem, 0, len(content))
	for slug, rec := range content {
		items = append(items, pagemd.ContentItem{
			Title:       rec.Title,
			URL:         cfg.SiteURL + "/md/" + slug,
			Date:        rec.Date,
			Description: rec.Excerpt,
		})
	}
	items = pagemd.SortItemsByDate(items)

	return &pagemd.SiteListing{
		SiteName:    cfg.SiteName,
		Description: cfg.SiteDescription,
		BaseURL:     cfg.SiteURL,
		Items:       items,
	}
}
