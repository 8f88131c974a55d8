package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/thruflo/reel/internal/logging"
	"github.com/thruflo/reel/internal/testutil"
)

func newTestLimiter(cfg RateLimitConfig) (*rateLimiter, *testutil.FakeClock) {
	fc := testutil.NewFakeClock()
	return newRateLimiter(cfg, fc, logging.Default()), fc
}

func TestRateLimiterDefaults(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(RateLimitConfig{})
	assert.Equal(t, DefaultRateLimitConfig(), rl.cfg)
}

func TestRateLimiterWindow(t *testing.T) {
	t.Parallel()

	rl, fc := newTestLimiter(RateLimitConfig{MaxAttempts: 2, Window: time.Minute})

	assert.True(t, rl.allow("1.2.3.4").Allowed)
	fc.Advance(10 * time.Second)
	assert.True(t, rl.allow("1.2.3.4").Allowed)

	d := rl.allow("1.2.3.4")
	assert.False(t, d.Allowed)
	assert.False(t, d.Blocked)
	assert.Equal(t, 50*time.Second, d.RetryAfter)

	assert.True(t, rl.allow("5.6.7.8").Allowed, "limits are per address")

	fc.Advance(51 * time.Second)
	assert.True(t, rl.allow("1.2.3.4").Allowed, "the first attempt left the window")
}

func TestRateLimiterBlocksAfterFailures(t *testing.T) {
	t.Parallel()

	rl, fc := newTestLimiter(RateLimitConfig{MaxAttempts: 100, Window: time.Minute, BlockAfter: 2, BlockTime: time.Minute})
	ip := "10.0.0.1"

	rl.failure(ip)
	assert.True(t, rl.allow(ip).Allowed)

	rl.failure(ip)
	d := rl.allow(ip)
	assert.True(t, d.Blocked)
	assert.Equal(t, time.Minute, d.RetryAfter)

	fc.Advance(time.Minute)
	assert.True(t, rl.allow(ip).Allowed)

	rl.failure(ip)
	rl.failure(ip)
	d = rl.allow(ip)
	assert.True(t, d.Blocked)
	assert.Equal(t, 2*time.Minute, d.RetryAfter, "block doubles")

	rl.success(ip)
	assert.True(t, rl.allow(ip).Allowed)
	assert.Empty(t, rl.fails)
}

func TestRateLimiterBlockIsCapped(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(RateLimitConfig{BlockAfter: 1, BlockTime: time.Hour})
	for i := 0; i < 20; i++ {
		rl.failure("ip")
	}
	assert.Equal(t, maxBlock, rl.allow("ip").RetryAfter)
}

func TestRateLimiterCleanup(t *testing.T) {
	t.Parallel()

	rl, fc := newTestLimiter(RateLimitConfig{MaxAttempts: 5, Window: time.Minute, BlockAfter: 1, BlockTime: time.Minute})
	rl.allow("a")
	rl.failure("b")
	rl.allow("c")
	rl.failure("c")

	fc.Advance(2 * time.Minute)
	rl.cleanup()

	assert.Empty(t, rl.recent)
	assert.Empty(t, rl.until)
	assert.Empty(t, rl.fails)
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.168.1.9:5000", "192.168.1.9"},
		{"remote without port", nil, "192.168.1.9", "192.168.1.9"},
		{"forwarded for", map[string]string{"X-Forwarded-For": " 203.0.113.5 , 10.0.0.1"}, "10.0.0.1:80", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.1:80", "198.51.100.7"},
		{"ipv6", nil, "[::1]:8374", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("POST", "/auth", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(r))
		})
	}
}
