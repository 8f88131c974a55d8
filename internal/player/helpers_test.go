package player

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/reel/internal/clock"
	"github.com/thruflo/reel/internal/config"
	"github.com/thruflo/reel/internal/testutil"
)

// recorder collects every event a player raises.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) add(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) ofType(typ EventType) []Event {
	var out []Event
	for _, ev := range r.all() {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) count(typ EventType) int {
	return len(r.ofType(typ))
}

// types returns the event types in order, leaving out the high-volume ones.
func (r *recorder) types() []EventType {
	var out []EventType
	for _, ev := range r.all() {
		switch ev.Type {
		case EventPlaying, EventVerbose, EventImageLoaded:
			continue
		}
		out = append(out, ev.Type)
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type harness struct {
	p       *Player
	clock   *testutil.FakeClock
	view    *testutil.RecordingView
	fetcher *testutil.FakeFetcher
	rec     *recorder
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	fetcher *testutil.FakeFetcher
	clock   clock.Clock
}

func withFetcher(f *testutil.FakeFetcher) harnessOption {
	return func(c *harnessConfig) { c.fetcher = f }
}

func withScale(factor float64) harnessOption {
	return func(c *harnessConfig) {
		if fc, ok := c.clock.(*testutil.FakeClock); ok {
			c.clock = testutil.NewScaledClock(fc, factor)
		}
	}
}

// newHarness creates a player for cfg with a fake clock, fetcher and view.
func newHarness(t *testing.T, cfg *config.Config, opts ...harnessOption) *harness {
	t.Helper()

	fc := testutil.NewFakeClock()
	hc := &harnessConfig{fetcher: testutil.NewFakeFetcher(), clock: fc}
	for _, opt := range opts {
		opt(hc)
	}

	h := &harness{
		clock:   fc,
		view:    testutil.NewRecordingView(),
		fetcher: hc.fetcher,
		rec:     &recorder{},
	}
	p, err := New(cfg,
		WithClock(hc.clock),
		WithFetcher(hc.fetcher),
		WithView(h.view),
		WithListener("", h.rec.add),
	)
	require.NoError(t, err)
	t.Cleanup(p.Destroy)
	h.p = p
	return h
}

// loaded waits until the movie has loaded and the loaded event was delivered.
func (h *harness) loaded(t *testing.T) {
	t.Helper()
	require.NoError(t, h.p.WaitLoaded(testutil.LoadContext(t)))
	h.eventually(t, EventLoaded, 1)
}

// eventually waits until n events of typ were recorded.
func (h *harness) eventually(t *testing.T, typ EventType, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.rec.count(typ) >= n
	}, testutil.DefaultLoadTimeout, time.Millisecond)
}

// ticks advances the clock by n playback intervals.
func (h *harness) ticks(n int) {
	h.clock.Advance(time.Duration(n) * 100 * time.Millisecond)
}
