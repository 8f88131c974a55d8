package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/reel/internal/config"
	"github.com/thruflo/reel/internal/frame"
)

// SampleMovieYAML is a small sequence movie with two clips.
const SampleMovieYAML = `sequence: "frame##.png"
from: 1
to: 4
folder: frames
fps: 10
load_parallel: 2
grid:
  width: 2
  height: 2
  rows: 1
  columns: 1
clips:
  - name: intro
    start: 1
    end: 2
  - name: outro
    start: 3
    end: 4
    pause_ms: 250
`

// SampleConfig returns a valid config with n single-frame images named
// img01.png.. at 10 fps, loading one image at a time, with no retries.
func SampleConfig(n int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Images = make([]string, n)
	for i := range cfg.Images {
		cfg.Images[i] = fmt.Sprintf("img%02d.png", i+1)
	}
	cfg.Folder = ""
	cfg.FPS = 10
	cfg.Verbose = false
	cfg.Grid = frame.Grid{Width: 2, Height: 2, Rows: 1, Columns: 1}
	cfg.Retry = config.Retry{}
	return &cfg
}

// FakeFetcher serves 1x1 images from memory.
type FakeFetcher struct {
	mu       sync.Mutex
	gated    bool
	gates    map[string]chan struct{}
	failures map[string]error
	calls    []string
}

// NewFakeFetcher returns a fetcher that completes every fetch immediately.
func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{
		gates:    map[string]chan struct{}{},
		failures: map[string]error{},
	}
}

// NewGatedFetcher returns a fetcher whose fetches block until Release.
func NewGatedFetcher() *FakeFetcher {
	f := NewFakeFetcher()
	f.gated = true
	return f
}

// Fail makes every fetch of src return err.
func (f *FakeFetcher) Fail(src string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		err = errors.New("fetch failed")
	}
	f.failures[src] = err
}

// Release lets pending and future fetches of src complete.
func (f *FakeFetcher) Release(src string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := f.gate(src)
	select {
	case <-gate:
	default:
		close(gate)
	}
}

// ReleaseAll releases every name in srcs.
func (f *FakeFetcher) ReleaseAll(srcs []string) {
	for _, src := range srcs {
		f.Release(src)
	}
}

// gate must be called with f.mu held.
func (f *FakeFetcher) gate(src string) chan struct{} {
	g, ok := f.gates[src]
	if !ok {
		g = make(chan struct{})
		f.gates[src] = g
	}
	return g
}

// Fetch implements preload.Fetcher.
func (f *FakeFetcher) Fetch(ctx context.Context, src string) (image.Image, error) {
	f.mu.Lock()
	f.calls = append(f.calls, src)
	gated := f.gated
	gate := f.gate(src)
	f.mu.Unlock()

	if gated {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	err := f.failures[src]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	return img, nil
}

// Calls returns the sources fetched so far, in call order.
func (f *FakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// WritePNGs writes one w x h PNG per name into dir.
func WritePNGs(t *testing.T, dir string, w, h int, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for i, name := range names {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				img.Set(x, y, color.RGBA{R: uint8(40 * i), G: uint8(10 * x), B: uint8(10 * y), A: 255})
			}
		}
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644))
	}
}

// WriteMovie writes SampleMovieYAML and its four frames into a temp
// directory and returns the movie file path.
func WriteMovie(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WritePNGs(t, filepath.Join(dir, "frames"), 2, 2, "frame01.png", "frame02.png", "frame03.png", "frame04.png")
	path := filepath.Join(dir, "movie.yaml")
	require.NoError(t, os.WriteFile(path, []byte(SampleMovieYAML), 0o644))
	return path
}
