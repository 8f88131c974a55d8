package tui

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/thruflo/reel/internal/player"
)

// Key represents a keyboard input.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyCtrlC
	KeyCtrlD
	KeyRune // Regular character
)

// KeyEvent represents a key press event.
type KeyEvent struct {
	Key  Key
	Rune rune // Only valid when Key == KeyRune
}

// KeyReader reads keyboard input from a raw terminal.
type KeyReader struct {
	reader *bufio.Reader
}

// NewKeyReader creates a KeyReader from the given io.Reader.
// The reader should be a raw terminal input (e.g., os.Stdin after term.MakeRaw).
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{
		reader: bufio.NewReaderSize(r, 64),
	}
}

// ReadKey reads a single key event from the input.
// This method blocks until a key is pressed.
func (k *KeyReader) ReadKey() (KeyEvent, error) {
	b, err := k.reader.ReadByte()
	if err != nil {
		return KeyEvent{}, err
	}

	switch b {
	case 0x03: // Ctrl+C
		return KeyEvent{Key: KeyCtrlC}, nil
	case 0x04: // Ctrl+D
		return KeyEvent{Key: KeyCtrlD}, nil
	case 0x0D, 0x0A:
		return KeyEvent{Key: KeyEnter}, nil
	case 0x1B: // Escape or escape sequence start
		return k.readEscapeSequence()
	default:
		if b >= 0x20 && b < 0x7F {
			return KeyEvent{Key: KeyRune, Rune: rune(b)}, nil
		}
		if b >= 0xC0 {
			return k.readUTF8(b)
		}
		return KeyEvent{Key: KeyUnknown}, nil
	}
}

// readEscapeSequence handles arrow keys and friends. A lone escape is only
// recognised when nothing follows it in the same read.
func (k *KeyReader) readEscapeSequence() (KeyEvent, error) {
	if k.reader.Buffered() == 0 {
		return KeyEvent{Key: KeyEscape}, nil
	}

	b, err := k.reader.ReadByte()
	if err != nil {
		return KeyEvent{Key: KeyEscape}, nil
	}
	if b != '[' && b != 'O' {
		_ = k.reader.UnreadByte()
		return KeyEvent{Key: KeyEscape}, nil
	}
	return k.parseCSI()
}

// parseCSI parses a CSI (Control Sequence Introducer) or SS3 sequence.
func (k *KeyReader) parseCSI() (KeyEvent, error) {
	b, err := k.reader.ReadByte()
	if err != nil {
		return KeyEvent{Key: KeyEscape}, nil
	}

	switch b {
	case 'A':
		return KeyEvent{Key: KeyUp}, nil
	case 'B':
		return KeyEvent{Key: KeyDown}, nil
	case 'C':
		return KeyEvent{Key: KeyRight}, nil
	case 'D':
		return KeyEvent{Key: KeyLeft}, nil
	case 'H':
		return KeyEvent{Key: KeyHome}, nil
	case 'F':
		return KeyEvent{Key: KeyEnd}, nil
	}

	// Unknown sequence: consume up to its final byte.
	for next := b; k.reader.Buffered() > 0; {
		if (next >= 'A' && next <= 'Z') || next == '~' {
			break
		}
		next, _ = k.reader.ReadByte()
	}
	return KeyEvent{Key: KeyUnknown}, nil
}

// readUTF8 reads a multi-byte UTF-8 character.
func (k *KeyReader) readUTF8(first byte) (KeyEvent, error) {
	var buf [4]byte
	buf[0] = first

	var n int
	switch {
	case first&0xE0 == 0xC0:
		n = 2
	case first&0xF0 == 0xE0:
		n = 3
	case first&0xF8 == 0xF0:
		n = 4
	default:
		return KeyEvent{Key: KeyUnknown}, nil
	}

	for i := 1; i < n; i++ {
		b, err := k.reader.ReadByte()
		if err != nil {
			return KeyEvent{Key: KeyUnknown}, err
		}
		buf[i] = b
	}

	r, _ := utf8.DecodeRune(buf[:n])
	if r == utf8.RuneError {
		return KeyEvent{Key: KeyUnknown}, nil
	}
	return KeyEvent{Key: KeyRune, Rune: r}, nil
}

// Action represents what a key press asks the UI to do.
type Action int

const (
	ActionNone    Action = iota
	ActionCommand        // send a command to the player
	ActionQuit           // leave the UI
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionCommand:
		return "command"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// KeyAction maps a key press to an action and, for ActionCommand, the
// player command it triggers.
//
//	space      toggle play/pause
//	p          play from the start of the movie
//	s          stop
//	→ / l      next frame
//	← / h      previous frame
//	Home / 0   frame 1
//	c          play the clip queue
//	q, esc, ^C quit
func KeyAction(ev KeyEvent) (Action, player.Command) {
	switch ev.Key {
	case KeyEscape, KeyCtrlC, KeyCtrlD:
		return ActionQuit, player.Command{}
	case KeyRight:
		return ActionCommand, player.Command{Kind: player.CommandNextFrame}
	case KeyLeft:
		return ActionCommand, player.Command{Kind: player.CommandPreviousFrame}
	case KeyHome:
		return ActionCommand, player.Command{Kind: player.CommandGotoFrame, Frame: 1}
	case KeyRune:
		switch ev.Rune {
		case ' ':
			return ActionCommand, player.Command{Kind: player.CommandToggle}
		case 'p', 'P':
			return ActionCommand, player.Command{Kind: player.CommandPlay}
		case 's', 'S':
			return ActionCommand, player.Command{Kind: player.CommandStop}
		case 'l', 'L':
			return ActionCommand, player.Command{Kind: player.CommandNextFrame}
		case 'h', 'H':
			return ActionCommand, player.Command{Kind: player.CommandPreviousFrame}
		case '0':
			return ActionCommand, player.Command{Kind: player.CommandGotoFrame, Frame: 1}
		case 'c', 'C':
			return ActionCommand, player.Command{Kind: player.CommandPlayClips}
		case 'q', 'Q':
			return ActionQuit, player.Command{}
		}
	}
	return ActionNone, player.Command{}
}
