package worker

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter implements per-client rate limiting. Each key (a client IP in
// the HTTP server) gets its own token bucket; buckets idle for longer than
// the idle timeout are dropped.
type Limiter struct {
	limiters     *gocache.Cache
	pinned       map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter. A non-positive rate disables
// limiting; a non-positive burst defaults to 5.
func NewLimiter(requestsPerSecond float64, burst int, idle time.Duration) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	if idle <= 0 {
		idle = 10 * time.Minute
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     gocache.New(idle, idle),
		pinned:       make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Allow reports whether key may proceed now, consuming a token if so
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

// getLimiter returns the bucket for key, creating it on first use and
// extending its idle deadline on every use
func (l *Limiter) getLimiter(key string) *rate.Limiter {
	l.mu.RLock()
	pinned, ok := l.pinned[key]
	l.mu.RUnlock()
	if ok {
		return pinned
	}

	if v, found := l.limiters.Get(key); found {
		limiter := v.(*rate.Limiter)
		l.limiters.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.defaultRate, l.defaultBurst)
	if err := l.limiters.Add(key, limiter, gocache.DefaultExpiration); err != nil {
		// another request created it first
		if v, found := l.limiters.Get(key); found {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// SetKeyRate pins a custom rate for one key; pinned buckets never expire.
// A non-positive rate exempts the key from limiting.
func (l *Limiter) SetKeyRate(key string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.defaultBurst
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.pinned[key] = rate.NewLimiter(limit, burst)
}
