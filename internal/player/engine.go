package player

import "time"

// catchUpRatio is the share of the configured fps below which a tick
// advances more than one frame.
const catchUpRatio = 0.75

// maxCatchUp bounds the frames advanced by one tick.
const maxCatchUp = 10

// PlayOption adjusts a single Play or PlayClip call.
type PlayOption func(*playArgs)

// playArgs holds the optional arguments of a play invocation. Zero frames
// and nil flags mean "use the default".
type playArgs struct {
	from, to    int
	repeat      *bool
	performStop *bool
}

// FromFrame sets the first frame of the play range.
func FromFrame(n int) PlayOption {
	return func(a *playArgs) { a.from = n }
}

// ToFrame sets the last frame of the play range.
func ToFrame(n int) PlayOption {
	return func(a *playArgs) { a.to = n }
}

// Repeat overrides the configured repeat flag.
func Repeat(b bool) PlayOption {
	return func(a *playArgs) { a.repeat = &b }
}

// PerformStop chooses between stop (true) and pause (false) at the end of a
// non-repeating range.
func PerformStop(b bool) PlayOption {
	return func(a *playArgs) { a.performStop = &b }
}

func newPlayArgs(opts []PlayOption) playArgs {
	var a playArgs
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Play starts playback. Before the movie has loaded the call is queued and
// runs once loading completes. Any running clip sequence is abandoned.
func (p *Player) Play(opts ...PlayOption) {
	a := newPlayArgs(opts)
	p.do(func() {
		if p.destroyed {
			return
		}
		p.seq.cancel(p)
		p.play(a)
	})
}

// Pause halts playback on the current frame. Plays queued behind loading
// are dropped.
func (p *Player) Pause() {
	p.do(func() {
		if p.destroyed {
			return
		}
		p.pendingPlays = nil
		p.pause()
	})
}

// Stop halts playback and rewinds to frame 1.
func (p *Player) Stop() {
	p.do(func() {
		if p.destroyed {
			return
		}
		p.pendingPlays = nil
		p.seq.cancel(p)
		p.stop()
	})
}

// Toggle pauses a playing movie and resumes a paused one. A stopped movie
// starts from the beginning.
func (p *Player) Toggle() {
	p.do(func() {
		if p.destroyed {
			return
		}
		switch p.status {
		case StatusPlaying:
			p.pause()
		case StatusPaused:
			p.resume()
		default:
			p.seq.cancel(p)
			p.play(playArgs{})
		}
	})
}

// NextFrame shows the following frame, wrapping to frame 1.
func (p *Player) NextFrame() {
	p.do(func() {
		if !p.destroyed {
			p.nextFrame()
		}
	})
}

// PreviousFrame shows the preceding frame, wrapping to the last one.
func (p *Player) PreviousFrame() {
	p.do(func() {
		if !p.destroyed {
			p.previousFrame()
		}
	})
}

// GotoFrame shows frame n. Frames outside the movie are ignored; a frame
// whose image is still loading is shown as soon as it arrives.
func (p *Player) GotoFrame(n int) {
	p.do(func() {
		if !p.destroyed {
			p.gotoFrame(n)
		}
	})
}

func (p *Player) play(a playArgs) {
	if p.destroyed {
		return
	}
	if p.load != LoadLoaded {
		p.pendingPlays = append(p.pendingPlays, func() { p.play(a) })
		p.log.Debug("play deferred until loaded", "from", a.from, "to", a.to)
		return
	}

	total := p.frames.Total()
	if total == 0 {
		return
	}

	r := playRange{
		from:        a.from,
		to:          a.to,
		repeat:      p.cfg.Repeat,
		performStop: p.cfg.PerformStop,
	}
	if r.from < 1 {
		r.from = 1
	}
	if r.from > total {
		r.from = total
	}
	if r.to < 1 || r.to > total {
		r.to = total
	}
	if a.repeat != nil {
		r.repeat = *a.repeat
	}
	if a.performStop != nil {
		r.performStop = *a.performStop
	}

	if p.current < r.from || p.current > r.to {
		if p.cfg.PlayBackwards {
			p.seek(r.to)
		} else {
			p.seek(r.from)
		}
	}

	p.run++
	p.rng = r
	p.status = StatusPlaying
	p.lastTick = time.Time{}
	p.startTicking()
	p.emit(Event{Type: EventPlay, Frame: p.current, From: r.from, To: r.to})
}

// resume restarts the range that was paused.
func (p *Player) resume() {
	if p.rng.to == 0 {
		p.play(playArgs{})
		return
	}
	repeat, performStop := p.rng.repeat, p.rng.performStop
	p.play(playArgs{from: p.rng.from, to: p.rng.to, repeat: &repeat, performStop: &performStop})
}

func (p *Player) pause() {
	p.cancelTick()
	p.status = StatusPaused
	p.emit(Event{Type: EventPause, Frame: p.current})
}

func (p *Player) stop() {
	p.cancelTick()
	p.view.HideAll()
	p.displayed = 0
	p.seek(1)
	p.status = StatusStopped
	p.emit(Event{Type: EventStop, Frame: p.current})
}

// finish handles the end of a non-repeating range.
func (p *Player) finish() {
	if p.rng.performStop {
		p.stop()
	} else {
		p.pause()
	}
	p.emit(Event{Type: EventEnded, Frame: p.current})
}

// startTicking replaces the running tick with a fresh one.
func (p *Player) startTicking() {
	p.cancelTick()
	gen := p.tickGen
	p.tick = p.clock.Every(p.cfg.Interval(), func() {
		p.do(func() {
			if gen != p.tickGen || p.destroyed {
				return
			}
			p.advance()
		})
	})
}

// cancelTick stops the running tick. Bumping the generation makes a tick
// that already fired but has not yet taken the lock a no-op.
func (p *Player) cancelTick() {
	p.tickGen++
	if p.tick != nil {
		p.tick.Stop()
		p.tick = nil
	}
}

// advance runs one tick.
func (p *Player) advance() {
	now := p.clock.Now()
	if p.lastTick.IsZero() {
		p.realFps = p.cfg.FPS
	} else if elapsed := now.Sub(p.lastTick); elapsed > 0 {
		p.realFps = float64(time.Second) / float64(elapsed)
	}
	p.lastTick = now

	rate := 1.0
	if p.realFps < p.cfg.FPS*catchUpRatio {
		rate = p.realFps / p.cfg.FPS
	}

	boundary, restart, step := p.rng.to, p.rng.from, p.nextFrame
	if p.cfg.PlayBackwards {
		boundary, restart, step = p.rng.from, p.rng.to, p.previousFrame
	}

	if p.current == boundary {
		if !p.rng.repeat {
			p.finish()
			return
		}
		p.seek(restart)
	} else {
		for loops := 0; rate <= 1 && loops < maxCatchUp; loops++ {
			step()
			if p.current == boundary {
				break
			}
			rate += rate
		}
	}
	p.emit(Event{Type: EventPlaying, Frame: p.current})
}

func (p *Player) nextFrame() {
	total := p.frames.Total()
	if total == 0 {
		return
	}
	p.seek(p.current%total + 1)
}

func (p *Player) previousFrame() {
	total := p.frames.Total()
	if total == 0 {
		return
	}
	n := p.current - 1
	if n < 1 {
		n = total
	}
	p.seek(n)
}

// seek moves the playhead to n and shows it when its image is loaded.
func (p *Player) seek(n int) {
	p.current = n
	p.display(n)
}

// display shows frame n if it is loaded. Otherwise the previous frame stays
// on screen.
func (p *Player) display(n int) {
	if !p.frames.IsLoaded(n) {
		return
	}
	p.view.Show(n)
	p.displayed = n
}

func (p *Player) gotoFrame(n int) {
	f, ok := p.frames.Frame(n)
	switch {
	case !ok:
		p.log.Debug("goto ignored, frame out of range", "frame", n, "total", p.frames.Total())
	case f.Loaded:
		p.pendingGoto = 0
		p.seek(n)
	case f.Failed:
		p.log.Warn("goto ignored, frame failed to load", "frame", n)
	default:
		p.pendingGoto = n
	}
}
