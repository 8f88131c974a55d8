package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thruflo/reel/internal/clip"
	"github.com/thruflo/reel/internal/clock"
	"github.com/thruflo/reel/internal/config"
	"github.com/thruflo/reel/internal/frame"
	"github.com/thruflo/reel/internal/logging"
	"github.com/thruflo/reel/internal/preload"
	"github.com/thruflo/reel/internal/sequence"
)

var (
	// ErrAlreadyInitialized is returned when a target already has a live player.
	ErrAlreadyInitialized = errors.New("player already initialized")
	// ErrClipOutOfRange is returned for clips outside the movie or queue.
	ErrClipOutOfRange = clip.ErrOutOfRange
	// ErrClipNotFound is returned when a clip reference resolves to nothing.
	ErrClipNotFound = clip.ErrNotFound
	// ErrDestroyed is returned by operations on a destroyed player.
	ErrDestroyed = errors.New("player destroyed")
)

// Status is the playback state.
type Status int

const (
	StatusStopped Status = iota
	StatusPlaying
	StatusPaused
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "stopped"
	}
}

// LoadState is the preload progress. It only moves forward.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadLoading
	LoadLoaded
)

// String returns the load state name.
func (s LoadState) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadLoaded:
		return "loaded"
	default:
		return "idle"
	}
}

// loaderInterval is the preloader animation period.
const loaderInterval = 100 * time.Millisecond

// Option configures a Player.
type Option func(*Player)

// WithView sets the view frames are rendered to. Defaults to NopView.
func WithView(v View) Option {
	return func(p *Player) { p.view = v }
}

// WithFetcher sets the image fetcher. Defaults to preload.NewFetcher(folder).
func WithFetcher(f preload.Fetcher) Option {
	return func(p *Player) { p.fetcher = f }
}

// WithClock sets the clock used for ticks and pauses.
func WithClock(c clock.Clock) Option {
	return func(p *Player) { p.clock = c }
}

// WithLogger sets the parent logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Player) { p.log = l }
}

// WithListener registers fn before preloading starts, so no loaded or
// imageloaded event can be missed. An empty typ subscribes to every event.
func WithListener(typ EventType, fn Listener) Option {
	return func(p *Player) {
		if typ == "" {
			p.events.OnAll(fn)
			return
		}
		p.events.On(typ, fn)
	}
}

// playRange is the active play invocation.
type playRange struct {
	from, to    int
	repeat      bool
	performStop bool
}

// Player plays one movie.
type Player struct {
	mu     sync.Mutex
	id     uuid.UUID
	cfg    *config.Config
	frames *frame.Index
	clips  *clip.Registry
	images []string

	view    View
	fetcher preload.Fetcher
	clock   clock.Clock
	log     *logging.Logger
	events  Events
	outbox  []Event

	// playback
	status    Status
	current   int
	displayed int
	rng       playRange
	tick      clock.Timer
	tickGen   uint64
	run       uint64
	lastTick  time.Time
	realFps   float64

	// loading
	load         LoadState
	imagesDone   int
	pendingPlays []func()
	pendingGoto  int
	loaderTick   clock.Timer
	loaderCell   int
	cancelLoad   context.CancelFunc
	loadDone     chan struct{}

	seq sequencer

	destroyed bool
}

// New creates a player for cfg and starts preloading its images. cfg is
// cloned, so later changes to it do not affect the player.
func New(cfg *config.Config, opts ...Option) (*Player, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	images, err := sequence.Resolve(cfg.Images, cfg.Sequence, cfg.From, cfg.To, cfg.Step)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve images: %w", err)
	}

	p := &Player{
		id:       uuid.New(),
		cfg:      cfg,
		images:   images,
		frames:   frame.NewIndex(images, cfg.Grid),
		view:     NopView{},
		clock:    clock.Real(),
		log:      logging.Default(),
		current:  1,
		realFps:  cfg.FPS,
		loadDone: make(chan struct{}),
		seq:      sequencer{cursor: -1},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fetcher == nil {
		p.fetcher = preload.NewFetcher(cfg.Folder)
	}
	p.log = p.log.WithFields(map[string]interface{}{
		"component": "player",
		"id":        p.id.String()[:8],
	})

	p.clips = clip.NewRegistry(p.frames.Total())
	for _, c := range cfg.Clips {
		if err := p.clips.Add(clip.Clip{Name: c.Name, Start: c.Start, End: c.End, Pause: c.Pause()}); err != nil {
			return nil, fmt.Errorf("invalid clip in config: %w", err)
		}
	}

	p.view.Prepare(p.frames.Frames(), cfg.Width, cfg.Height)
	p.log.Info("player initialized", "images", len(images), "frames", p.frames.Total())

	p.do(p.startLoading)
	return p, nil
}

// do runs fn under the player lock, then delivers the events fn raised.
func (p *Player) do(fn func()) {
	for _, ev := range p.locked(fn) {
		p.events.emit(ev)
	}
}

// locked runs fn with p.mu held and returns the queued events. The lock is
// released even if fn panics.
func (p *Player) locked(fn func()) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
	out := p.outbox
	p.outbox = nil
	return out
}

// emit queues ev for delivery once the lock is released.
func (p *Player) emit(ev Event) {
	ev.Player = p.id.String()
	ev.run = p.run
	ev.Time = p.clock.Now()
	p.outbox = append(p.outbox, ev)
}

// verbose raises a verbose event when the movie is configured for it.
func (p *Player) verbose(format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	p.log.Debug(text)
	if p.cfg.Verbose {
		p.emit(Event{Type: EventVerbose, Text: text})
	}
}

// reject logs a refused operation and returns err unchanged.
func (p *Player) reject(op string, err error) error {
	p.log.Warn(op+" rejected", "error", err)
	return err
}

// ID returns the player's handle.
func (p *Player) ID() uuid.UUID {
	return p.id
}

// Events returns the player's listener registry.
func (p *Player) Events() *Events {
	return &p.events
}

// Status returns the playback state.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// LoadState returns the preload state.
func (p *Player) LoadState() LoadState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load
}

// CurrentFrame returns the playhead position.
func (p *Player) CurrentFrame() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// DisplayedFrame returns the frame on screen, 0 when none is.
func (p *Player) DisplayedFrame() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.displayed
}

// TotalFrames returns imageCount * rows * columns.
func (p *Player) TotalFrames() int {
	return p.frames.Total()
}

// Images returns the resolved source image names.
func (p *Player) Images() []string {
	return append([]string(nil), p.images...)
}

// IsFrameLoaded reports whether frame n can be displayed.
func (p *Player) IsFrameLoaded(n int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames.IsLoaded(n)
}

// RealFps returns the frame rate measured on the last tick.
func (p *Player) RealFps() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.realFps
}

// Config returns a copy of the player's configuration.
func (p *Player) Config() *config.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.Clone()
}

// GetOption returns a configuration value by its JSON name.
func (p *Player) GetOption(name string) (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return config.GetOption(p.cfg, name)
}

// SetOption changes a configuration value. Frame source and grid options are
// accepted but do not re-layout frames; the frame index is fixed at setup.
// Playback options apply from the next Play.
func (p *Player) SetOption(name string, value interface{}) error {
	var err error
	p.do(func() {
		var cfg *config.Config
		cfg, err = config.SetOption(p.cfg, name, value)
		if err != nil {
			err = p.reject("set option", err)
			return
		}
		p.cfg = cfg
		p.log.Debug("option set", "name", name, "value", value)
	})
	return err
}

// AddClip appends a clip to the queue.
func (p *Player) AddClip(c clip.Clip) error {
	var err error
	p.do(func() {
		if err = p.clips.Add(c); err != nil {
			err = p.reject("add clip", err)
		}
	})
	return err
}

// InsertClip inserts a clip at position at of the queue.
func (p *Player) InsertClip(at int, c clip.Clip) error {
	var err error
	p.do(func() {
		if err = p.clips.Insert(at, c); err != nil {
			err = p.reject("add clip", err)
		}
	})
	return err
}

// GetClip returns the clip called name.
func (p *Player) GetClip(name string) (clip.Clip, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.clips.Get(name)
	if !ok {
		return clip.Clip{}, p.reject("get clip", fmt.Errorf("%w: %q", ErrClipNotFound, name))
	}
	return c, nil
}

// RemoveClip evicts the clip ref resolves to and returns it.
func (p *Player) RemoveClip(ref ClipRef) (clip.Clip, error) {
	var (
		removed clip.Clip
		err     error
	)
	p.do(func() {
		c, ok := ref.resolve(p.clips)
		if !ok {
			err = p.reject("remove clip", fmt.Errorf("%w: %v", ErrClipNotFound, ref))
			return
		}
		if removed, err = p.clips.Remove(c.Name); err != nil {
			err = p.reject("remove clip", err)
		}
	})
	return removed, err
}

// GetClipQueue returns the clip queue in play order.
func (p *Player) GetClipQueue() []clip.Clip {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clips.Queue()
}

// Destroyed reports whether Destroy has been called.
func (p *Player) Destroyed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.destroyed
}

// Destroy stops playback and loading, releases every timer and listener and
// resets the view. The player cannot be used afterwards.
func (p *Player) Destroy() {
	p.do(func() {
		if p.destroyed {
			return
		}
		p.cancelTick()
		p.seq.cancel(p)
		p.stopLoaderTick()
		if p.cancelLoad != nil {
			p.cancelLoad()
		}
		p.pendingPlays = nil
		p.pendingGoto = 0
		if p.load != LoadLoaded {
			// finishLoading never runs on a destroyed player.
			close(p.loadDone)
		}
		p.view.Reset()
		p.destroyed = true
		p.log.Info("player destroyed")
	})
	p.events.clear()
}
