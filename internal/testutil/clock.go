package testutil

import (
	"sync"
	"time"

	"github.com/thruflo/reel/internal/clock"
)

// FakeClock is a deterministic clock.Clock for tests.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock  *FakeClock
	id     int
	when   time.Time
	period time.Duration
	fn     func()
	active bool
}

// NewFakeClock returns a clock starting at a fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules fn once, d from now.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) clock.Timer {
	return c.schedule(d, 0, fn)
}

// Every schedules fn every d, first at now+d.
func (c *FakeClock) Every(d time.Duration, fn func()) clock.Timer {
	if d <= 0 {
		d = time.Nanosecond
	}
	return c.schedule(d, d, fn)
}

func (c *FakeClock) schedule(d, period time.Duration, fn func()) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &fakeTimer{clock: c, id: c.seq, when: c.now.Add(d), period: period, fn: fn, active: true}
	c.timers = append(c.timers, t)
	return t
}

// Stop cancels the timer.
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := t.active
	t.active = false
	return was
}

// Advance moves time forward by d, firing due callbacks in order. Callbacks
// run without the clock's lock held, so they may schedule or stop timers.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(end)
		if next == nil {
			c.now = end
			c.mu.Unlock()
			return
		}
		c.now = next.when
		if next.period > 0 {
			next.when = next.when.Add(next.period)
		} else {
			next.active = false
		}
		fn := next.fn
		c.mu.Unlock()

		fn()
	}
}

// nextDue returns the earliest active timer due at or before end. Ties fire
// in scheduling order.
func (c *FakeClock) nextDue(end time.Time) *fakeTimer {
	var best *fakeTimer
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.active {
			continue
		}
		live = append(live, t)
		if t.when.After(end) {
			continue
		}
		if best == nil || t.when.Before(best.when) || (t.when.Equal(best.when) && t.id < best.id) {
			best = t
		}
	}
	c.timers = live
	return best
}

// Pending returns the number of active timers.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if t.active {
			n++
		}
	}
	return n
}

// ScaledClock reports elapsed time multiplied by Factor while delegating
// scheduling to the wrapped FakeClock. A factor of 2 makes every tick look
// twice as late as it was scheduled, as on a machine too slow to keep up.
type ScaledClock struct {
	*FakeClock
	Factor float64
	start  time.Time
}

// NewScaledClock wraps fc.
func NewScaledClock(fc *FakeClock, factor float64) *ScaledClock {
	return &ScaledClock{FakeClock: fc, Factor: factor, start: fc.Now()}
}

// Now returns the scaled time.
func (s *ScaledClock) Now() time.Time {
	elapsed := s.FakeClock.Now().Sub(s.start)
	return s.start.Add(time.Duration(float64(elapsed) * s.Factor))
}
