package player

import (
	"fmt"

	"github.com/thruflo/reel/internal/clip"
	"github.com/thruflo/reel/internal/clock"
)

// ClipRef selects a clip for PlayClip and RemoveClip.
type ClipRef interface {
	resolve(r *clip.Registry) (clip.Clip, bool)
}

// ByName refers to a queued clip by name.
type ByName string

func (n ByName) resolve(r *clip.Registry) (clip.Clip, bool) {
	return r.Get(string(n))
}

// ByIndex refers to a queued clip by 0-based position. Positions outside
// the queue are clamped to its first or last entry.
type ByIndex int

func (i ByIndex) resolve(r *clip.Registry) (clip.Clip, bool) {
	n := r.Len()
	if n == 0 {
		return clip.Clip{}, false
	}
	at := int(i)
	if at < 0 {
		at = 0
	}
	if at > n-1 {
		at = n - 1
	}
	return r.At(at)
}

// ByClip uses the given clip as is, queued or not.
type ByClip clip.Clip

func (c ByClip) resolve(*clip.Registry) (clip.Clip, bool) {
	return clip.Clip(c), true
}

// ByFunc asks a callback for the clip.
type ByFunc func() (clip.Clip, bool)

func (f ByFunc) resolve(*clip.Registry) (clip.Clip, bool) {
	if f == nil {
		return clip.Clip{}, false
	}
	return f()
}

// PlayClip seeks to the clip's first frame (its last when playing
// backwards) and plays its range. Unless overridden, the clip stops at its
// end and repeats according to the configuration. Any running clip
// sequence is abandoned.
func (p *Player) PlayClip(ref ClipRef, opts ...PlayOption) error {
	a := newPlayArgs(opts)
	var err error
	p.do(func() {
		if p.destroyed {
			err = ErrDestroyed
			return
		}
		p.seq.cancel(p)
		err = p.playClip(ref, a)
	})
	return err
}

func (p *Player) playClip(ref ClipRef, a playArgs) error {
	if ref == nil {
		return p.reject("play clip", fmt.Errorf("%w: no clip given", ErrClipNotFound))
	}
	c, ok := ref.resolve(p.clips)
	if !ok {
		return p.reject("play clip", fmt.Errorf("%w: %v", ErrClipNotFound, ref))
	}
	if a.performStop == nil {
		stop := true
		a.performStop = &stop
	}
	if p.cfg.PlayBackwards {
		p.gotoFrame(c.End)
	} else {
		p.gotoFrame(c.Start)
	}
	a.from, a.to = c.Start, c.End
	p.log.Debug("playing clip", "clip", c.Name, "start", c.Start, "end", c.End)
	p.play(a)
	return nil
}

// sequencer walks the clip queue for PlayClips. Each step plays one clip,
// waits for its ended event, holds for the pause and then schedules the
// next step on the clock, so long repeat chains never nest calls.
type sequencer struct {
	// cursor is the queue position of the current clip, -1 before the
	// first PlayClips.
	cursor int
	// gen invalidates callbacks of an abandoned sequence.
	gen     uint64
	ended   Subscription
	waiting bool
	timer   clock.Timer
}

// cancel abandons the running sequence, keeping the cursor.
func (s *sequencer) cancel(p *Player) {
	s.gen++
	if s.waiting {
		p.events.Off(s.ended)
		s.waiting = false
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// PlayClips plays every queued clip in order, each once, honouring clip
// pauses. With repeat configured the queue wraps around. An empty queue
// plays the whole movie.
func (p *Player) PlayClips() {
	p.do(func() {
		if p.destroyed {
			return
		}
		p.seq.cancel(p)
		n := p.clips.Len()
		if n == 0 {
			p.play(playArgs{})
			return
		}
		if p.seq.cursor < 0 || p.seq.cursor >= n {
			p.seq.cursor = 0
			if p.cfg.PlayBackwards {
				p.seq.cursor = n - 1
			}
		}
		p.seqStep()
	})
}

// seqStep plays the clip under the cursor and waits for it to end.
func (p *Player) seqStep() {
	n := p.clips.Len()
	if n == 0 {
		return
	}
	if p.seq.cursor >= n {
		p.seq.cursor = n - 1
	}
	cur, _ := p.clips.At(p.seq.cursor)
	prevAt := p.seq.cursor - 1
	if prevAt < 0 {
		prevAt = n - 1
	}
	prev, _ := p.clips.At(prevAt)

	gen := p.seq.gen
	base := p.run
	once := false
	if err := p.playClip(ByIndex(p.seq.cursor), playArgs{repeat: &once}); err != nil {
		return
	}

	// Ended events of earlier plays may still be in flight; only the end of
	// a play started after base counts.
	var sub Subscription
	sub = p.events.On(EventEnded, func(ev Event) {
		if ev.run <= base {
			return
		}
		p.events.Off(sub)
		p.do(func() { p.seqEnded(gen, cur, prev) })
	})
	p.seq.ended = sub
	p.seq.waiting = true
}

// seqEnded parks on the finished clip's boundary frame and schedules the
// next step after the pause.
func (p *Player) seqEnded(gen uint64, cur, prev clip.Clip) {
	if gen != p.seq.gen || p.destroyed {
		return
	}
	p.seq.waiting = false

	delay := cur.Pause
	if p.cfg.PlayBackwards {
		p.gotoFrame(cur.Start)
		delay = prev.Pause
	} else {
		p.gotoFrame(cur.End)
	}
	p.seq.timer = p.clock.AfterFunc(delay, func() {
		p.do(func() { p.seqAdvance(gen) })
	})
}

// seqAdvance moves the cursor and plays the next clip. Without repeat the
// sequence ends at the edge of the queue.
func (p *Player) seqAdvance(gen uint64) {
	if gen != p.seq.gen || p.destroyed {
		return
	}
	p.seq.timer = nil

	n := p.clips.Len()
	if n == 0 {
		return
	}
	c := p.seq.cursor
	switch {
	case p.cfg.PlayBackwards && c > 0:
		c--
	case p.cfg.PlayBackwards && p.cfg.Repeat:
		c = n - 1
	case !p.cfg.PlayBackwards && c < n-1:
		c++
	case !p.cfg.PlayBackwards && p.cfg.Repeat:
		c = 0
	default:
		p.verbose("clip sequence finished")
		return
	}
	p.seq.cursor = c
	p.seqStep()
}
