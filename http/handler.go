package http

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// DefaultCacheControl is sent with llms.txt and markdown responses unless
// overridden.
const DefaultCacheControl = "public, max-age=3600"

// handlerConfig holds the knobs shared by the pagemd handlers.
type handlerConfig struct {
	cacheControl string
	corsOrigin   string
	logger       *slog.Logger
}

// HandlerOption configures a handler.
type HandlerOption func(*handlerConfig)

// WithCacheControl overrides the Cache-Control header value.
func WithCacheControl(v string) HandlerOption {
	return func(c *handlerConfig) {
		c.cacheControl = v
	}
}

// WithCORS enables CORS headers for the given origin ("*" for any).
func WithCORS(origin string) HandlerOption {
	return func(c *handlerConfig) {
		c.corsOrigin = origin
	}
}

// WithLogger sets the handler's logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(c *handlerConfig) {
		c.logger = logger
	}
}

func newHandlerConfig(opts []HandlerOption) handlerConfig {
	cfg := handlerConfig{
		cacheControl: DefaultCacheControl,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// setContentHeaders applies the headers shared by the text endpoints.
// X-Robots-Tag keeps machine-readable variants out of search indexes.
func (c *handlerConfig) setContentHeaders(w http.ResponseWriter, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", c.cacheControl)
	w.Header().Set("X-Robots-Tag", "noindex")
	if c.corsOrigin != "" {
		w.Header().Set("Access-Control-Allow-Origin", c.corsOrigin)
	}
}

func (c *handlerConfig) setCORSHeaders(w http.ResponseWriter) {
	origin := c.corsOrigin
	if origin == "" {
		origin = "*"
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// clientKey identifies the caller for rate limiting: the first
// X-Forwarded-For hop when present, else the remote address host.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
