package server

import (
	"net"
	"sync"
	"time"
)

// rateLimiter is a per-client token bucket.
type rateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*bucket
	rate      int           // tokens per interval
	interval  time.Duration // refill interval
	lastPrune time.Time
	now       func() time.Time
}

type bucket struct {
	tokens   int
	lastSeen time.Time
}

func newRateLimiter(rate int, interval time.Duration) *rateLimiter {
	return &rateLimiter{
		visitors: make(map[string]*bucket),
		rate:     rate,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *rateLimiter) allow(key string) bool {
	if rl == nil || rl.rate <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)

	b, ok := rl.visitors[key]
	if !ok {
		rl.visitors[key] = &bucket{tokens: rl.rate - 1, lastSeen: now}
		return true
	}

	// Refill tokens based on elapsed time.
	refill := int(now.Sub(b.lastSeen) / rl.interval)
	if refill > 0 {
		b.tokens = min(rl.rate, b.tokens+refill*rl.rate)
		b.lastSeen = now
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// prune drops clients idle for five minutes, at most once a minute.
func (rl *rateLimiter) prune(now time.Time) {
	if now.Sub(rl.lastPrune) < time.Minute {
		return
	}
	rl.lastPrune = now
	for key, b := range rl.visitors {
		if now.Sub(b.lastSeen) > 5*time.Minute {
			delete(rl.visitors, key)
		}
	}
}

// clientKey identifies the caller by IP, ignoring the port.
func clientKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
