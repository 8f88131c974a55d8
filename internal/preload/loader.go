// Package preload fetches a movie's source images with bounded parallelism.
//
// Images are split into N slots; slot k loads images k, k+N, k+2N, ... one
// after another, so at most N fetches are in flight no matter how many
// images the movie has. A fetch that keeps failing after its retries is
// reported and skipped; the slot moves on to its next image.
package preload

import (
	"context"
	"fmt"
	"image"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of loading one image.
type Result struct {
	Index    int // 0-based image index
	Source   string
	Image    image.Image
	Attempts int
	Err      error
}

// Options configures a Loader.
type Options struct {
	Fetcher  Fetcher
	Parallel int
	// Retries is the number of extra attempts after a failed fetch.
	Retries int
	// Backoff is the delay before the first retry; it doubles per attempt.
	Backoff time.Duration
}

// Loader runs the preload pipeline.
type Loader struct {
	fetcher  Fetcher
	parallel int
	retries  int
	backoff  time.Duration
}

// NewLoader creates a Loader. Parallel below 1 is treated as 1.
func NewLoader(opts Options) *Loader {
	parallel := opts.Parallel
	if parallel < 1 {
		parallel = 1
	}
	return &Loader{
		fetcher:  opts.Fetcher,
		parallel: parallel,
		retries:  opts.Retries,
		backoff:  opts.Backoff,
	}
}

// Slots returns how many fetches run concurrently for n images.
func (l *Loader) Slots(n int) int {
	return min(l.parallel, n)
}

// Run loads every source and calls report once per image, from the slot
// goroutine that fetched it. Run returns when all slots are done, or with the
// context's error once ctx is cancelled.
func (l *Loader) Run(ctx context.Context, sources []string, report func(Result)) error {
	if l.fetcher == nil {
		return fmt.Errorf("preload: no fetcher configured")
	}

	g, ctx := errgroup.WithContext(ctx)
	for slot := 0; slot < l.Slots(len(sources)); slot++ {
		first := slot
		g.Go(func() error {
			for i := first; i < len(sources); i += l.parallel {
				if err := ctx.Err(); err != nil {
					return err
				}
				res := l.fetch(ctx, i, sources[i])
				if ctx.Err() != nil {
					return ctx.Err()
				}
				report(res)
			}
			return nil
		})
	}
	return g.Wait()
}

func (l *Loader) fetch(ctx context.Context, index int, src string) Result {
	res := Result{Index: index, Source: src}
	delay := l.backoff

	for attempt := 0; attempt <= l.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				res.Err = ctx.Err()
				return res
			case <-time.After(delay):
			}
			delay *= 2
		}

		res.Attempts++
		img, err := l.fetcher.Fetch(ctx, src)
		if err == nil {
			res.Image = img
			res.Err = nil
			return res
		}
		res.Err = err
	}
	return res
}
