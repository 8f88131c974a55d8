package player

import (
	"context"
	"errors"

	"github.com/thruflo/reel/internal/preload"
)

// startLoading moves the load state from idle to loading and launches the
// preload pipeline. Called once, from New.
func (p *Player) startLoading() {
	if p.load != LoadIdle {
		return
	}
	p.load = LoadLoading

	if p.cfg.ShowPreLoader {
		p.loaderTick = p.clock.Every(loaderInterval, func() {
			p.do(p.animateLoader)
		})
	}

	if len(p.images) == 0 {
		p.finishLoading()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancelLoad = cancel

	loader := preload.NewLoader(preload.Options{
		Fetcher:  p.fetcher,
		Parallel: p.cfg.LoadParallel,
		Retries:  p.cfg.Retry.Attempts,
		Backoff:  p.cfg.Retry.Backoff(),
	})
	images := append([]string(nil), p.images...)
	p.log.Debug("preloading", "images", len(images), "slots", loader.Slots(len(images)))

	go func() {
		err := loader.Run(ctx, images, func(res preload.Result) {
			p.do(func() { p.imageLoaded(res) })
		})
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				p.log.Error("preload aborted", "error", err)
			}
			return
		}
		p.do(p.finishLoading)
	}()
}

// imageLoaded records one preload result.
func (p *Player) imageLoaded(res preload.Result) {
	if p.destroyed {
		return
	}
	p.imagesDone++

	if res.Err != nil {
		p.frames.MarkFailed(res.Index)
		p.log.Error("image failed to load", "image", res.Source, "attempts", res.Attempts, "error", res.Err)
		p.emit(Event{
			Type:   EventLoadError,
			Image:  res.Index + 1,
			Loaded: p.imagesDone,
			Total:  len(p.images),
			Text:   res.Err.Error(),
		})
		return
	}

	first, last, err := p.frames.MarkLoaded(res.Index)
	if err != nil {
		p.log.Error("loaded image outside the movie", "image", res.Index, "error", err)
		return
	}
	for n := first; n <= last; n++ {
		f, _ := p.frames.Frame(n)
		p.view.SetImage(f, res.Image)
	}

	p.emit(Event{
		Type:   EventImageLoaded,
		Image:  res.Index + 1,
		Loaded: p.imagesDone,
		Total:  len(p.images),
	})
	p.verbose("Image #%d has been loaded", res.Index+1)

	if p.current >= first && p.current <= last && p.displayed != p.current {
		p.display(p.current)
	}
	if g := p.pendingGoto; g >= first && g <= last {
		p.pendingGoto = 0
		p.gotoFrame(g)
	}
}

// finishLoading moves the load state to loaded, then runs the plays that
// were requested while loading, each exactly once.
func (p *Player) finishLoading() {
	if p.destroyed || p.load == LoadLoaded {
		return
	}
	p.load = LoadLoaded
	p.stopLoaderTick()

	p.emit(Event{Type: EventLoaded, Loaded: p.imagesDone, Total: len(p.images)})
	p.verbose("%d of %d images loaded", p.frames.LoadedCount()/p.frames.Grid().PerImage(), len(p.images))

	pending := p.pendingPlays
	p.pendingPlays = nil
	for _, play := range pending {
		play()
	}

	if p.cfg.PlayOnLoad {
		p.play(playArgs{})
	}
	close(p.loadDone)
}

// animateLoader advances the preloader sprite by one cell.
func (p *Player) animateLoader() {
	if p.loaderTick == nil || p.load == LoadLoaded {
		p.stopLoaderTick()
		return
	}
	l := p.cfg.Loader
	cells := max(1, l.Frames())
	cols := max(1, l.Columns)
	x := -l.Width * (p.loaderCell % cols)
	y := -l.Height * (p.loaderCell / cols)
	p.view.Progress(p.imagesDone, len(p.images), x, y)
	p.loaderCell = (p.loaderCell + 1) % cells
}

func (p *Player) stopLoaderTick() {
	if p.loaderTick != nil {
		p.loaderTick.Stop()
		p.loaderTick = nil
	}
}

// WaitLoaded blocks until every image has been attempted or ctx is done. It
// returns ErrDestroyed if the player is destroyed before loading completes.
func (p *Player) WaitLoaded(ctx context.Context) error {
	select {
	case <-p.loadDone:
		if p.LoadState() != LoadLoaded {
			return ErrDestroyed
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
