package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClockAfterFunc(t *testing.T) {
	fc := NewFakeClock()
	var fired []string

	fc.AfterFunc(20*time.Millisecond, func() { fired = append(fired, "b") })
	fc.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "a") })

	fc.Advance(5 * time.Millisecond)
	assert.Empty(t, fired)

	fc.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, 0, fc.Pending())
}

func TestFakeClockEvery(t *testing.T) {
	fc := NewFakeClock()
	start := fc.Now()
	var at []time.Duration

	timer := fc.Every(100*time.Millisecond, func() { at = append(at, fc.Now().Sub(start)) })
	fc.Advance(350 * time.Millisecond)

	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}, at)
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	fc.Advance(time.Second)
	assert.Len(t, at, 3)
}

func TestFakeClockNestedScheduling(t *testing.T) {
	fc := NewFakeClock()
	var fired []string

	fc.AfterFunc(10*time.Millisecond, func() {
		fired = append(fired, "outer")
		fc.AfterFunc(0, func() { fired = append(fired, "inner") })
		fc.AfterFunc(time.Hour, func() { fired = append(fired, "late") })
	})

	fc.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"outer", "inner"}, fired)
}

func TestFakeClockStopFromCallback(t *testing.T) {
	fc := NewFakeClock()
	count := 0
	var timer interface{ Stop() bool }
	timer = fc.Every(time.Millisecond, func() {
		count++
		if count == 3 {
			timer.Stop()
		}
	})

	fc.Advance(time.Second)
	assert.Equal(t, 3, count)
}

func TestScaledClock(t *testing.T) {
	fc := NewFakeClock()
	sc := NewScaledClock(fc, 2)
	start := sc.Now()

	fc.Advance(50 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, sc.Now().Sub(start))
}
