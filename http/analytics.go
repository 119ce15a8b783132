package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/pagemd"
)

// AnalyticsHandler accepts analytics events over POST and appends them to
// an EventStore through a deduplicating Submitter.
type AnalyticsHandler struct {
	submitter *pagemd.Submitter
	limiter   *RateLimiter
	now       func() time.Time
	cfg       handlerConfig
}

// NewAnalyticsHandler creates the handler. A nil limiter disables rate
// limiting.
func NewAnalyticsHandler(store pagemd.EventStore, limiter *RateLimiter, opts ...HandlerOption) *AnalyticsHandler {
	return &AnalyticsHandler{
		submitter: pagemd.NewSubmitter(store),
		limiter:   limiter,
		now:       time.Now,
		cfg:       newHandlerConfig(opts),
	}
}

func (h *AnalyticsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		h.cfg.setCORSHeaders(w)
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.cfg.setCORSHeaders(w)

	if h.limiter != nil {
		if ok, retry := h.limiter.Allow(clientKey(r)); !ok {
			seconds := int(retry.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"success": false,
				"error":   "Rate limit exceeded",
			})
			return
		}
	}

	var event pagemd.AnalyticsEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Invalid event payload",
		})
		return
	}

	// The server's clock is authoritative regardless of what the client sent.
	event.Timestamp = h.now().UTC().Format(time.RFC3339)

	if err := h.submitter.Submit(r.Context(), &event); err != nil {
		h.cfg.logger.Error("analytics submit failed", "action", event.Action, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   pagemd.ErrorMessage(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"event":   event,
	})
}
