// Package tui plays a movie in the terminal: a Screen renders frames with
// 24-bit color half blocks and a TUI turns key presses into player commands.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/thruflo/reel/internal/logging"
	"github.com/thruflo/reel/internal/player"
)

// Dispatcher runs player commands. *player.Player implements it.
type Dispatcher interface {
	Dispatch(cmd player.Command) error
}

// TUI manages the terminal user interface.
type TUI struct {
	terminal *Terminal
	screen   *Screen
	log      *logging.Logger
}

// New creates a TUI on terminal drawing to screen.
func New(terminal *Terminal, screen *Screen) *TUI {
	return &TUI{
		terminal: terminal,
		screen:   screen,
		log:      logging.With("component", "tui"),
	}
}

// Screen returns the view frames are drawn to.
func (t *TUI) Screen() *Screen {
	return t.screen
}

// Run puts the terminal in raw mode and handles key presses until the user
// quits, input ends or ctx is cancelled. A terminal that is already raw is
// left raw for its owner to restore.
func (t *TUI) Run(ctx context.Context, d Dispatcher) error {
	if !t.terminal.IsRaw() {
		if err := t.terminal.EnterRaw(); err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer t.terminal.ExitRaw()
	}
	defer t.terminal.ShowCursor()

	return t.HandleKeys(ctx, t.terminal, d)
}

// HandleKeys reads key presses from r and dispatches their commands. It
// returns nil when the user quits or r reaches EOF.
func (t *TUI) HandleKeys(ctx context.Context, r io.Reader, d Dispatcher) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keyReader := NewKeyReader(r)
	// Unbuffered, so every key is handled before a read error is seen.
	keyCh := make(chan KeyEvent)
	keyErr := make(chan error, 1)

	go func() {
		for {
			ev, err := keyReader.ReadKey()
			if err != nil {
				keyErr <- err
				return
			}
			select {
			case keyCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-keyErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err

		case ev := <-keyCh:
			action, cmd := KeyAction(ev)
			switch action {
			case ActionQuit:
				return nil
			case ActionCommand:
				if err := d.Dispatch(cmd); err != nil {
					t.log.Warn("command failed", "command", cmd.Kind, "error", err)
				}
			}
		}
	}
}

// Follow keeps the status line in step with p. The returned subscription
// can be passed to p.Events().Off.
func (t *TUI) Follow(p *player.Player) player.Subscription {
	return p.Events().OnAll(func(ev player.Event) {
		switch ev.Type {
		case player.EventPlay, player.EventPause, player.EventStop, player.EventEnded, player.EventLoaded:
			t.screen.SetStatus(fmt.Sprintf("%s %.1f fps", FormatStatus(p.Status().String()), p.RealFps()))
		case player.EventLoadError:
			t.screen.SetStatus(Style(fmt.Sprintf("image %d failed", ev.Image), FgRed))
		}
	})
}
