package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/thruflo/reel/internal/config"
	"github.com/thruflo/reel/internal/player"
	"github.com/thruflo/reel/internal/server"
	"github.com/thruflo/reel/internal/tui"
)

var (
	playFPS      float64
	playRepeat   bool
	playReverse  bool
	playClips    bool
	playClip     string
	playTrace    string
	playHeadless bool
	playDuration time.Duration
	playListen   string
	playPassword bool
)

// HeadlessResult is the JSON written to stdout by a headless run.
type HeadlessResult struct {
	Movie   string  `json:"movie"`
	Images  int     `json:"images"`
	Frames  int     `json:"frames"`
	Loaded  int     `json:"loaded"`           // frames whose image loaded
	Frame   int     `json:"frame"`            // current frame at exit
	Status  string  `json:"status"`           // playing, paused or stopped
	RealFps float64 `json:"real_fps"`         // last measured frame rate
	Plays   int     `json:"plays"`            // play events seen
	Ended   bool    `json:"ended"`            // a non-repeating range finished
	Errors  int     `json:"errors,omitempty"` // images that failed to load
	Remote  string  `json:"remote,omitempty"` // remote control address
}

var playCmd = &cobra.Command{
	Use:   "play [movie]",
	Short: "Play a movie in the terminal",
	Long: `Loads a movie file and plays it in the terminal.

The movie argument is a movie.yaml or movie.ini file, or a directory
holding one. Without an argument the current directory is searched.

Keys:
  space      play/pause
  p          play from the start
  s          stop
  ← →        previous/next frame
  c          play the clip queue
  q          quit

With --headless nothing is drawn: the movie plays until it ends, the
--duration elapses or the process is interrupted, and a JSON summary is
printed to stdout.

With --listen the player can also be driven over HTTP and a websocket
(see GET /state, POST /command and GET /events). Set REEL_PASSWORD or
pass --password to require a login. The browser remote is served at /.

Example:
  reel play
  reel play movies/walk --fps 24 --reverse
  reel play movie.yaml --clips
  reel play movie.yaml --headless --repeat=false --trace events.jsonl
  reel play movie.yaml --listen 127.0.0.1:8374 --password`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().Float64Var(&playFPS, "fps", config.DefaultFPS, "frames per second (default: from movie file)")
	playCmd.Flags().BoolVar(&playRepeat, "repeat", true, "loop playback (default: from movie file)")
	playCmd.Flags().BoolVar(&playReverse, "reverse", false, "play backwards")
	playCmd.Flags().BoolVar(&playClips, "clips", false, "play the clip queue instead of the whole movie")
	playCmd.Flags().StringVar(&playClip, "clip", "", "play a single clip by name")
	playCmd.Flags().StringVar(&playTrace, "trace", "", "write every player event to this file as JSON lines")
	playCmd.Flags().BoolVar(&playHeadless, "headless", false, "play without drawing, print a JSON summary to stdout")
	playCmd.Flags().DurationVar(&playDuration, "duration", 0, "stop a headless run after this long")
	playCmd.Flags().StringVar(&playListen, "listen", "", "serve a remote control on this address, e.g. "+server.DefaultAddr)
	playCmd.Flags().BoolVar(&playPassword, "password", false, "prompt for a remote control password")

	playCmd.MarkFlagsMutuallyExclusive("clips", "clip")

	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := findMovie(args)
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load movie: %w", err)
	}
	applyPlayFlags(cmd, cfg)

	var opts []player.Option
	if playTrace != "" {
		f, err := os.Create(playTrace)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		defer f.Close()
		opts = append(opts, player.WithListener("", newTracer(f).write))
	}

	if playHeadless {
		return runHeadless(ctx, cmd.OutOrStdout(), path, cfg, opts)
	}
	return runInteractive(ctx, path, cfg, opts)
}

// findMovie resolves the movie argument to a movie file.
func findMovie(args []string) (string, error) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("movie not found: %w", err)
	}
	if !info.IsDir() {
		return target, nil
	}
	path, err := config.Find(target)
	if err != nil {
		return "", err
	}
	return filepath.Clean(path), nil
}

// applyPlayFlags overrides movie settings with the flags given on the
// command line.
func applyPlayFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.FPS = playFPS
	}
	if flags.Changed("repeat") {
		cfg.Repeat = playRepeat
	}
	if flags.Changed("reverse") {
		cfg.PlayBackwards = playReverse
	}
	// Playback is started explicitly once the player exists.
	cfg.PlayOnLoad = false
}

// startPlayback begins whatever the flags ask for. Plays requested before
// loading completes are deferred by the player.
func startPlayback(p *player.Player) error {
	switch {
	case playClips:
		p.PlayClips()
	case playClip != "":
		if err := p.PlayClip(player.ByName(playClip)); err != nil {
			return fmt.Errorf("failed to play clip %q: %w", playClip, err)
		}
	default:
		p.Play()
	}
	return nil
}

func runInteractive(ctx context.Context, path string, cfg *config.Config, opts []player.Option) error {
	terminal := tui.NewTerminal(os.Stdout)
	if !terminal.IsTerminal() {
		return errors.New("play needs a terminal; use --headless")
	}
	cols, rows, err := terminal.Size()
	if err != nil {
		return fmt.Errorf("failed to get terminal size: %w", err)
	}

	screen := tui.NewScreen(os.Stdout, cols, rows)
	ui := tui.New(terminal, screen)

	manager := player.NewManager()
	defer manager.DestroyAll()

	p, err := manager.Init(path, cfg, append(opts, player.WithView(screen))...)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	ui.Follow(p)

	_, stopRemote, err := startRemote(ctx, p)
	if err != nil {
		return err
	}
	defer stopRemote()

	if err := startPlayback(p); err != nil {
		return err
	}

	err = ui.Run(ctx, p)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// headlessCounts tallies events raised on the player's goroutines.
type headlessCounts struct {
	mu     sync.Mutex
	plays  int
	errors int
}

func (c *headlessCounts) get() (plays, errors int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plays, c.errors
}

func runHeadless(ctx context.Context, out io.Writer, path string, cfg *config.Config, opts []player.Option) error {
	ended := make(chan struct{}, 1)
	counts := &headlessCounts{}
	listener := func(ev player.Event) {
		counts.mu.Lock()
		defer counts.mu.Unlock()
		switch ev.Type {
		case player.EventPlay:
			counts.plays++
		case player.EventLoadError:
			counts.errors++
		case player.EventEnded:
			// Every clip of a queue ends; only a plain play finishes the run.
			if !playClips {
				select {
				case ended <- struct{}{}:
				default:
				}
			}
		}
	}

	manager := player.NewManager()
	defer manager.DestroyAll()

	p, err := manager.Init(path, cfg, append(opts, player.WithListener("", listener))...)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}

	srv, stopRemote, err := startRemote(ctx, p)
	if err != nil {
		return err
	}
	defer stopRemote()

	if err := startPlayback(p); err != nil {
		return err
	}

	var timeout <-chan time.Time
	if playDuration > 0 {
		timer := time.NewTimer(playDuration)
		defer timer.Stop()
		timeout = timer.C
	}

	result := HeadlessResult{Movie: path}
	select {
	case <-ended:
		result.Ended = true
	case <-timeout:
	case <-ctx.Done():
	}

	snap := p.Snapshot()
	result.Plays, result.Errors = counts.get()
	result.Images = len(p.Images())
	result.Frames = snap.Total
	result.Loaded = snap.Loaded
	result.Frame = snap.Frame
	result.Status = snap.Status
	result.RealFps = snap.RealFps
	if srv != nil {
		result.Remote = srv.ListenAddr()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
