package http

import (
	"context"
	"net/http"
	"path"

	"github.com/fwojciec/pagemd"
)

// ContentLookupFunc resolves a slug to its content record. Absent content
// is reported as (nil, nil) or an ENOTFOUND error.
type ContentLookupFunc func(ctx context.Context, slug string) (*pagemd.ContentRecord, error)

// MarkdownHandler serves a content record's assembled Markdown by slug.
type MarkdownHandler struct {
	lookup    ContentLookupFunc
	assembler *pagemd.Assembler
	cfg       handlerConfig
}

// NewMarkdownHandler creates the handler. Register it with a {slug} path
// parameter (e.g. "GET /md/{slug}"); requests without one fall back to the
// final path segment.
func NewMarkdownHandler(lookup ContentLookupFunc, assembler *pagemd.Assembler, opts ...HandlerOption) *MarkdownHandler {
	return &MarkdownHandler{
		lookup:    lookup,
		assembler: assembler,
		cfg:       newHandlerConfig(opts),
	}
}

func (h *MarkdownHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		slug = path.Base(r.URL.Path)
	}

	rec, err := h.lookup(r.Context(), slug)
	if err != nil && pagemd.ErrorCode(err) != pagemd.ENOTFOUND {
		h.cfg.logger.Error("content lookup failed", "slug", slug, "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.Error(w, "Content not found", http.StatusNotFound)
		return
	}

	doc, err := h.assembler.Assemble(*rec)
	if err != nil {
		h.cfg.logger.Error("assembly failed", "slug", slug, "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.cfg.setContentHeaders(w, "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc.Markdown))
}

// LLMRewriteMiddleware rewrites requests carrying the query parameter
// llm=1 (exactly "1") to the markdown handler path produced by rewrite.
// All other requests pass through unmodified.
func LLMRewriteMiddleware(next http.Handler, rewrite func(originalPath string) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("llm") == "1" {
			r.URL.Path = rewrite(r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}
