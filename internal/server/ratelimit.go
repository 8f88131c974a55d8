package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/thruflo/reel/internal/clock"
	"github.com/thruflo/reel/internal/logging"
)

// RateLimitConfig bounds login attempts per client address.
type RateLimitConfig struct {
	MaxAttempts int           // attempts allowed per window
	Window      time.Duration // sliding window length
	BlockAfter  int           // consecutive failures before a block
	BlockTime   time.Duration // first block length, doubled for every further BlockAfter failures
}

// maxBlock caps the block length.
const maxBlock = 24 * time.Hour

// DefaultRateLimitConfig returns the default login limits.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts: 5,
		Window:      time.Minute,
		BlockAfter:  10,
		BlockTime:   5 * time.Minute,
	}
}

// rateLimiter is a sliding window limiter that also blocks addresses after
// repeated failures.
type rateLimiter struct {
	mu     sync.Mutex
	cfg    RateLimitConfig
	clock  clock.Clock
	log    *logging.Logger
	recent map[string][]time.Time
	fails  map[string]int
	until  map[string]time.Time
}

func newRateLimiter(cfg RateLimitConfig, c clock.Clock, log *logging.Logger) *rateLimiter {
	def := DefaultRateLimitConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.BlockAfter <= 0 {
		cfg.BlockAfter = def.BlockAfter
	}
	if cfg.BlockTime <= 0 {
		cfg.BlockTime = def.BlockTime
	}
	return &rateLimiter{
		cfg:    cfg,
		clock:  c,
		log:    log,
		recent: make(map[string][]time.Time),
		fails:  make(map[string]int),
		until:  make(map[string]time.Time),
	}
}

// decision is the outcome of allow.
type decision struct {
	Allowed    bool
	Blocked    bool
	RetryAfter time.Duration
}

// allow records an attempt from ip unless it is blocked or over the limit.
func (rl *rateLimiter) allow(ip string) decision {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	if until, ok := rl.until[ip]; ok {
		if now.Before(until) {
			return decision{Blocked: true, RetryAfter: until.Sub(now)}
		}
		delete(rl.until, ip)
	}

	attempts := rl.prune(ip, now)
	if len(attempts) >= rl.cfg.MaxAttempts {
		retry := attempts[0].Add(rl.cfg.Window).Sub(now)
		if retry <= 0 {
			retry = time.Second
		}
		rl.log.Warn("login rate limited", "ip", ip, "attempts", len(attempts), "retry_after", retry)
		return decision{RetryAfter: retry}
	}

	rl.recent[ip] = append(attempts, now)
	return decision{Allowed: true}
}

// prune drops attempts outside the window. Must be called with rl.mu held.
func (rl *rateLimiter) prune(ip string, now time.Time) []time.Time {
	start := now.Add(-rl.cfg.Window)
	kept := rl.recent[ip][:0]
	for _, ts := range rl.recent[ip] {
		if ts.After(start) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(rl.recent, ip)
		return nil
	}
	rl.recent[ip] = kept
	return kept
}

func (rl *rateLimiter) success(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.fails, ip)
	delete(rl.until, ip)
}

func (rl *rateLimiter) failure(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.fails[ip]++
	n := rl.fails[ip]
	if n < rl.cfg.BlockAfter {
		return
	}

	doublings := (n - rl.cfg.BlockAfter) / rl.cfg.BlockAfter
	block := rl.cfg.BlockTime
	for i := 0; i < doublings && block < maxBlock; i++ {
		block *= 2
	}
	if block > maxBlock {
		block = maxBlock
	}
	rl.until[ip] = rl.clock.Now().Add(block)
	rl.log.Warn("login blocked", "ip", ip, "failures", n, "duration", block)
}

// cleanup forgets addresses with no recent attempts and no active block.
func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	for ip := range rl.recent {
		rl.prune(ip, now)
	}
	for ip, until := range rl.until {
		if !now.Before(until) {
			delete(rl.until, ip)
		}
	}
	for ip := range rl.fails {
		_, blocked := rl.until[ip]
		_, active := rl.recent[ip]
		if !blocked && !active {
			delete(rl.fails, ip)
		}
	}
}

// clientIP returns the request's client address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
