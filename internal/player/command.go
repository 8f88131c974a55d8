package player

import "fmt"

// CommandKind names a player operation.
type CommandKind int

const (
	CommandPlay CommandKind = iota
	CommandPause
	CommandStop
	CommandToggle
	CommandNextFrame
	CommandPreviousFrame
	CommandGotoFrame
	CommandPlayClip
	CommandPlayClips
)

var commandNames = [...]string{
	CommandPlay:          "play",
	CommandPause:         "pause",
	CommandStop:          "stop",
	CommandToggle:        "toggle",
	CommandNextFrame:     "next",
	CommandPreviousFrame: "previous",
	CommandGotoFrame:     "goto",
	CommandPlayClip:      "playClip",
	CommandPlayClips:     "playClips",
}

// String returns the command name.
func (k CommandKind) String() string {
	if k >= 0 && int(k) < len(commandNames) {
		return commandNames[k]
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// ParseCommandKind returns the kind called name.
func ParseCommandKind(name string) (CommandKind, error) {
	for k, n := range commandNames {
		if n == name {
			return CommandKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown command: %q", name)
}

// Command is a request to a player, as produced by key bindings or scripts.
type Command struct {
	Kind CommandKind
	// Frame is the target of CommandGotoFrame.
	Frame int
	// Clip names the clip for CommandPlayClip.
	Clip string
	// Play carries options for CommandPlay and CommandPlayClip.
	Play []PlayOption
}

// Dispatch runs cmd.
func (p *Player) Dispatch(cmd Command) error {
	if p.Destroyed() {
		return ErrDestroyed
	}
	switch cmd.Kind {
	case CommandPlay:
		p.Play(cmd.Play...)
	case CommandPause:
		p.Pause()
	case CommandStop:
		p.Stop()
	case CommandToggle:
		p.Toggle()
	case CommandNextFrame:
		p.NextFrame()
	case CommandPreviousFrame:
		p.PreviousFrame()
	case CommandGotoFrame:
		p.GotoFrame(cmd.Frame)
	case CommandPlayClip:
		return p.PlayClip(ByName(cmd.Clip), cmd.Play...)
	case CommandPlayClips:
		p.PlayClips()
	default:
		return fmt.Errorf("unknown command: %v", cmd.Kind)
	}
	return nil
}
