package http

import (
	"context"
	"net/http"

	"github.com/fwojciec/pagemd"
)

// SiteListingFunc produces the current site listing. Called on every
// request so the listing reflects live content.
type SiteListingFunc func(ctx context.Context) (*pagemd.SiteListing, error)

// LLMSTxtHandler serves the /llms.txt listing as plain text.
type LLMSTxtHandler struct {
	listing SiteListingFunc
	cfg     handlerConfig
}

// NewLLMSTxtHandler creates the handler.
func NewLLMSTxtHandler(listing SiteListingFunc, opts ...HandlerOption) *LLMSTxtHandler {
	return &LLMSTxtHandler{
		listing: listing,
		cfg:     newHandlerConfig(opts),
	}
}

func (h *LLMSTxtHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listing(r.Context())
	if err != nil {
		h.cfg.logger.Error("llms.txt listing provider failed", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	body, err := pagemd.GenerateLLMsTxt(*listing)
	if err != nil {
		h.cfg.logger.Error("llms.txt generation failed", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.cfg.setContentHeaders(w, "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
