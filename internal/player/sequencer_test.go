package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/reel/internal/clip"
	"github.com/thruflo/reel/internal/testutil"
)

// threeClips queues A(1,10), B(11,20) with a 500ms pause and C(21,30).
func threeClips(t *testing.T, h *harness) {
	t.Helper()
	require.NoError(t, h.p.AddClip(clip.Clip{Name: "A", Start: 1, End: 10}))
	require.NoError(t, h.p.AddClip(clip.Clip{Name: "B", Start: 11, End: 20, Pause: 500 * time.Millisecond}))
	require.NoError(t, h.p.AddClip(clip.Clip{Name: "C", Start: 21, End: 30}))
}

type playAt struct {
	at       time.Duration
	from, to int
}

func (h *harness) playsSince(start time.Time) []playAt {
	var out []playAt
	for _, ev := range h.rec.ofType(EventPlay) {
		out = append(out, playAt{at: ev.Time.Sub(start), from: ev.From, to: ev.To})
	}
	return out
}

func TestPlayClip(t *testing.T) {
	h := newHarness(t, testutil.SampleConfig(30))
	h.loaded(t)
	threeClips(t, h)

	require.NoError(t, h.p.PlayClip(ByName("B")))
	assert.Equal(t, 11, h.p.CurrentFrame())

	h.ticks(9)
	assert.Equal(t, 20, h.p.CurrentFrame())

	h.ticks(1)
	assert.Equal(t, []EventType{EventLoaded, EventPlay, EventStop, EventEnded}, h.rec.types())
	assert.Equal(t, 1, h.p.CurrentFrame(), "clips stop by default")
}

func TestPlayClipRefs(t *testing.T) {
	h := newHarness(t, testutil.SampleConfig(30))
	h.loaded(t)
	threeClips(t, h)

	tests := []struct {
		name  string
		ref   ClipRef
		start int
	}{
		{"by name", ByName("C"), 21},
		{"by index", ByIndex(1), 11},
		{"index clamped low", ByIndex(-4), 1},
		{"index clamped high", ByIndex(9), 21},
		{"by clip", ByClip(clip.Clip{Name: "adhoc", Start: 5, End: 7}), 5},
		{"by func", ByFunc(func() (clip.Clip, bool) { return clip.Clip{Start: 15, End: 16}, true }), 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, h.p.PlayClip(tt.ref))
			assert.Equal(t, tt.start, h.p.CurrentFrame())
			assert.Equal(t, StatusPlaying, h.p.Status())
		})
	}
}

func TestPlayClipNotFound(t *testing.T) {
	h := newHarness(t, testutil.SampleConfig(30))
	h.loaded(t)

	for _, ref := range []ClipRef{ByName("missing"), ByIndex(0), ByFunc(nil), nil} {
		assert.ErrorIs(t, h.p.PlayClip(ref), ErrClipNotFound)
	}
	assert.Equal(t, StatusStopped, h.p.Status())
	assert.Equal(t, 0, h.rec.count(EventPlay))
}

func TestPlayClipsCycles(t *testing.T) {
	cfg := testutil.SampleConfig(30)
	cfg.Repeat = true
	h := newHarness(t, cfg)
	h.loaded(t)
	threeClips(t, h)

	start := h.clock.Now()
	h.p.PlayClips()

	maxEnded := 0
	for i := 0; i < 36; i++ {
		h.ticks(1)
		if n := h.p.Events().Count(EventEnded); n > maxEnded {
			maxEnded = n
		}
	}

	assert.Equal(t, []playAt{
		{0, 1, 10},
		{1000 * time.Millisecond, 11, 20},
		{2500 * time.Millisecond, 21, 30},
		{3500 * time.Millisecond, 1, 10},
	}, h.playsSince(start))
	assert.Equal(t, 1, maxEnded, "one ended listener at a time")
}

func TestPlayClipsWithoutRepeatStopsAfterLastClip(t *testing.T) {
	cfg := testutil.SampleConfig(30)
	cfg.Repeat = false
	h := newHarness(t, cfg)
	h.loaded(t)
	threeClips(t, h)

	h.p.PlayClips()
	h.clock.Advance(10 * time.Second)

	assert.Len(t, h.rec.ofType(EventPlay), 3)
	assert.Equal(t, 30, h.p.CurrentFrame(), "parked on the last clip's end")
	assert.Equal(t, 0, h.p.Events().Count(EventEnded))
	assert.Equal(t, 0, h.clock.Pending())
}

func TestPlayClipsBackwards(t *testing.T) {
	cfg := testutil.SampleConfig(30)
	cfg.Repeat = false
	cfg.PlayBackwards = true
	h := newHarness(t, cfg)
	h.loaded(t)
	threeClips(t, h)

	start := h.clock.Now()
	h.p.PlayClips()
	assert.Equal(t, 30, h.p.CurrentFrame())
	h.clock.Advance(10 * time.Second)

	// In reverse the pause comes from the clip before the one that ended:
	// C ends, B's 500ms is held before B plays.
	assert.Equal(t, []playAt{
		{0, 21, 30},
		{1500 * time.Millisecond, 11, 20},
		{2500 * time.Millisecond, 1, 10},
	}, h.playsSince(start))
	assert.Equal(t, 1, h.p.CurrentFrame())
}

func TestPlayClipsEmptyQueuePlaysMovie(t *testing.T) {
	h := newHarness(t, testutil.SampleConfig(8))
	h.loaded(t)

	h.p.PlayClips()

	plays := h.rec.ofType(EventPlay)
	require.Len(t, plays, 1)
	assert.Equal(t, 1, plays[0].From)
	assert.Equal(t, 8, plays[0].To)
}

func TestPlayClipsResumesFromCursor(t *testing.T) {
	cfg := testutil.SampleConfig(30)
	cfg.Repeat = false
	h := newHarness(t, cfg)
	h.loaded(t)
	threeClips(t, h)

	h.p.PlayClips()
	h.clock.Advance(1500 * time.Millisecond)
	h.p.Stop()
	h.clock.Advance(10 * time.Second)
	assert.Len(t, h.rec.ofType(EventPlay), 2)
	assert.Equal(t, 0, h.p.Events().Count(EventEnded))

	h.rec.reset()
	h.p.PlayClips()
	plays := h.rec.ofType(EventPlay)
	require.Len(t, plays, 1)
	assert.Equal(t, 11, plays[0].From)
}

func TestPauseKeepsSequence(t *testing.T) {
	cfg := testutil.SampleConfig(30)
	cfg.Repeat = false
	h := newHarness(t, cfg)
	h.loaded(t)
	threeClips(t, h)

	h.p.PlayClips()
	h.ticks(5)
	h.p.Pause()
	h.clock.Advance(5 * time.Second)
	assert.Equal(t, 6, h.p.CurrentFrame())

	h.p.Toggle()
	h.clock.Advance(10 * time.Second)
	assert.Len(t, h.rec.ofType(EventPlay), 4, "A, resumed A, B, C")
	assert.Equal(t, 30, h.p.CurrentFrame())
}
