package preload

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Fetcher retrieves and decodes one source image.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (image.Image, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, src string) (image.Image, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, src string) (image.Image, error) {
	return f(ctx, src)
}

// NewFetcher returns an HTTP fetcher when folder is an http(s) URL and a
// filesystem fetcher otherwise.
func NewFetcher(folder string) Fetcher {
	if strings.HasPrefix(folder, "http://") || strings.HasPrefix(folder, "https://") {
		return &HTTPFetcher{BaseURL: folder, Client: http.DefaultClient}
	}
	return &FileFetcher{Dir: folder}
}

// FileFetcher reads images from a directory.
type FileFetcher struct {
	Dir string
}

// Fetch decodes Dir/src.
func (f *FileFetcher) Fetch(ctx context.Context, src string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := src
	if !filepath.IsAbs(src) {
		path = filepath.Join(f.Dir, src)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// HTTPFetcher downloads images relative to BaseURL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// Fetch GETs BaseURL+src and decodes the body.
func (f *HTTPFetcher) Fetch(ctx context.Context, src string) (image.Image, error) {
	url := f.BaseURL + src
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return img, nil
}
