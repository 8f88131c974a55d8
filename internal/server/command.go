package server

import (
	"errors"
	"fmt"

	"github.com/thruflo/reel/internal/player"
)

// CommandRequest is the JSON form of a player command.
type CommandRequest struct {
	Command     string `json:"command"`
	Frame       int    `json:"frame,omitempty"`
	Clip        string `json:"clip,omitempty"`
	From        int    `json:"from,omitempty"`
	To          int    `json:"to,omitempty"`
	Repeat      *bool  `json:"repeat,omitempty"`
	PerformStop *bool  `json:"perform_stop,omitempty"`
}

// ToCommand converts the request, checking the fields its command needs.
func (r CommandRequest) ToCommand() (player.Command, error) {
	kind, err := player.ParseCommandKind(r.Command)
	if err != nil {
		return player.Command{}, err
	}

	cmd := player.Command{Kind: kind, Frame: r.Frame, Clip: r.Clip}
	switch kind {
	case player.CommandGotoFrame:
		if r.Frame < 1 {
			return player.Command{}, errors.New("goto needs a frame")
		}
	case player.CommandPlayClip:
		if r.Clip == "" {
			return player.Command{}, fmt.Errorf("%s needs a clip", r.Command)
		}
	}

	if kind == player.CommandPlay || kind == player.CommandPlayClip {
		if r.From > 0 {
			cmd.Play = append(cmd.Play, player.FromFrame(r.From))
		}
		if r.To > 0 {
			cmd.Play = append(cmd.Play, player.ToFrame(r.To))
		}
		if r.Repeat != nil {
			cmd.Play = append(cmd.Play, player.Repeat(*r.Repeat))
		}
		if r.PerformStop != nil {
			cmd.Play = append(cmd.Play, player.PerformStop(*r.PerformStop))
		}
	}
	return cmd, nil
}
