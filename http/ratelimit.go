package http

import (
	"sync"
	"time"
)

// DefaultMaxClients bounds the number of tracked client windows.
const DefaultMaxClients = 10_000

// RateLimiter throttles requests per client key using fixed windows: each
// key gets a counter that resets when its window expires. Memory stays
// proportional to active clients: expired windows are dropped on lookup
// and a full sweep runs whenever the map reaches its capacity bound.
type RateLimiter struct {
	limit      int
	window     time.Duration
	maxClients int
	now        func() time.Time

	mu      sync.Mutex
	clients map[string]*clientWindow
}

type clientWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithMaxClients overrides the tracked-client capacity bound.
func WithMaxClients(n int) RateLimiterOption {
	return func(l *RateLimiter) {
		l.maxClients = n
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(l *RateLimiter) {
		l.now = now
	}
}

// NewRateLimiter allows limit requests per key per window.
func NewRateLimiter(limit int, window time.Duration, opts ...RateLimiterOption) *RateLimiter {
	l := &RateLimiter{
		limit:      limit,
		window:     window,
		maxClients: DefaultMaxClients,
		now:        time.Now,
		clients:    make(map[string]*clientWindow),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether a request from key may proceed. When denied, the
// returned duration is how long the client should wait before retrying,
// rounded up to at least one second.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cw, ok := l.clients[key]
	if !ok || now.After(cw.resetAt) {
		if len(l.clients) >= l.maxClients {
			l.sweep(now)
		}
		l.clients[key] = &clientWindow{count: 1, resetAt: now.Add(l.window)}
		return true, 0
	}

	if cw.count < l.limit {
		cw.count++
		return true, 0
	}

	retry := cw.resetAt.Sub(now)
	if retry < time.Second {
		retry = time.Second
	}
	return false, retry
}

// sweep drops expired windows. Called with the lock held.
func (l *RateLimiter) sweep(now time.Time) {
	for key, cw := range l.clients {
		if now.After(cw.resetAt) {
			delete(l.clients, key)
		}
	}
}
