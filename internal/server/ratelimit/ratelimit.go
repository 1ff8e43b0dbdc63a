// Package ratelimit provides per-client request rate limiting using the
// token bucket algorithm.
package ratelimit

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds rate limiter settings.
type Config struct {
	// Capacity is the burst size per client.
	Capacity int
	// RefillRate is tokens added per second per client.
	RefillRate float64
	// TTL is how long an idle client's bucket is kept before cleanup.
	TTL time.Duration
}

// LoadConfig reads limiter settings from the environment, falling back to
// defaults generous enough for interactive wizard traffic
// (RATE_LIMIT_CAPACITY, RATE_LIMIT_REFILL_PER_SEC).
func LoadConfig() Config {
	cfg := Config{
		Capacity:   30,
		RefillRate: 5,
		TTL:        10 * time.Minute,
	}
	if raw := os.Getenv("RATE_LIMIT_CAPACITY"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			cfg.Capacity = parsed
		}
	}
	if raw := os.Getenv("RATE_LIMIT_REFILL_PER_SEC"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			cfg.RefillRate = parsed
		}
	}
	return cfg
}

// bucket is one client's token bucket.
type bucket struct {
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
}

// Limiter tracks a token bucket per client key.
type Limiter struct {
	cfg     Config
	mu      sync.Mutex
	buckets map[string]*bucket
	done    chan struct{}
}

// NewLimiter creates a limiter and starts its idle-bucket cleanup loop.
func NewLimiter(cfg Config) *Limiter {
	l := &Limiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether the client identified by key may proceed, consuming
// one token if so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.cfg.Capacity), lastRefill: now}
		l.buckets[key] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * l.cfg.RefillRate
	if b.tokens > float64(l.cfg.Capacity) {
		b.tokens = float64(l.cfg.Capacity)
	}
	b.lastRefill = now
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Stop terminates the cleanup loop.
func (l *Limiter) Stop() {
	close(l.done)
}

// ClientKey derives the limiter key for a request from its remote address.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-l.cfg.TTL)
			l.mu.Lock()
			for key, b := range l.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
