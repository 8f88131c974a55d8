// debug-server plays a generated movie behind the remote control, for
// working on the browser remote without image files.
// Run with: go run ./cmd/debug-server [password]
// Set REEL_WEB_DIR=./web/dist to serve the page from disk.
package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/thruflo/reel/internal/auth"
	"github.com/thruflo/reel/internal/config"
	"github.com/thruflo/reel/internal/logging"
	"github.com/thruflo/reel/internal/player"
	"github.com/thruflo/reel/internal/preload"
	"github.com/thruflo/reel/internal/server"
	"github.com/thruflo/reel/web"
)

const frames = 24

func main() {
	password := "test123"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	logging.SetLevel(logging.LevelDebug)

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	cfg.Sequence = "frame##.png"
	cfg.From = 1
	cfg.To = frames
	cfg.FPS = 12
	cfg.PlayOnLoad = true
	cfg.Verbose = false
	cfg.Clips = []config.Clip{
		{Name: "first-half", Start: 1, End: frames / 2, PauseMs: 500},
		{Name: "second-half", Start: frames/2 + 1, End: frames},
	}

	p, err := player.New(&cfg, player.WithFetcher(preload.FetcherFunc(generate)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create player: %v\n", err)
		os.Exit(1)
	}
	defer p.Destroy()

	srv, err := server.New(p, server.Config{
		Addr:         "127.0.0.1:8375",
		PasswordHash: hash,
		Assets:       web.Assets(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Server running on http://127.0.0.1:8375")
	fmt.Printf("Password: %s\n", password)
	fmt.Println("\nTest with:")
	fmt.Printf("  curl -X POST http://127.0.0.1:8375/auth -d password=%s\n", password)

	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// generate draws a frame whose hue follows its number.
func generate(ctx context.Context, src string) (image.Image, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(src, "frame"), ".png"))
	if err != nil {
		return nil, fmt.Errorf("unexpected frame name %q", src)
	}
	shade := uint8(255 * n / frames)
	img := image.NewRGBA(image.Rect(0, 0, 60, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 60; x++ {
			img.Set(x, y, color.RGBA{R: shade, G: uint8(x * 4), B: 255 - shade, A: 255})
		}
	}
	return img, nil
}
