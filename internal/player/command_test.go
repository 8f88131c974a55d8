package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/reel/internal/clip"
	"github.com/thruflo/reel/internal/testutil"
)

func TestCommandKindNames(t *testing.T) {
	for k := CommandPlay; k <= CommandPlayClips; k++ {
		parsed, err := ParseCommandKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseCommandKind("rewind")
	assert.Error(t, err)
	assert.Equal(t, "command(42)", CommandKind(42).String())
}

func TestDispatch(t *testing.T) {
	h := newHarness(t, testutil.SampleConfig(10))
	h.loaded(t)
	require.NoError(t, h.p.AddClip(clip.Clip{Name: "mid", Start: 4, End: 6}))

	steps := []struct {
		cmd        Command
		wantFrame  int
		wantStatus Status
	}{
		{Command{Kind: CommandNextFrame}, 2, StatusStopped},
		{Command{Kind: CommandPreviousFrame}, 1, StatusStopped},
		{Command{Kind: CommandGotoFrame, Frame: 7}, 7, StatusStopped},
		{Command{Kind: CommandPlayClip, Clip: "mid"}, 4, StatusPlaying},
		{Command{Kind: CommandPause}, 4, StatusPaused},
		{Command{Kind: CommandToggle}, 4, StatusPlaying},
		{Command{Kind: CommandStop}, 1, StatusStopped},
		{Command{Kind: CommandPlay, Play: []PlayOption{FromFrame(3)}}, 3, StatusPlaying},
		{Command{Kind: CommandPlayClips}, 4, StatusPlaying},
	}

	for _, step := range steps {
		require.NoError(t, h.p.Dispatch(step.cmd), step.cmd.Kind.String())
		assert.Equal(t, step.wantFrame, h.p.CurrentFrame(), step.cmd.Kind.String())
		assert.Equal(t, step.wantStatus, h.p.Status(), step.cmd.Kind.String())
	}

	err := h.p.Dispatch(Command{Kind: CommandPlayClip, Clip: "nope"})
	assert.ErrorIs(t, err, ErrClipNotFound)

	err = h.p.Dispatch(Command{Kind: CommandKind(99)})
	assert.Error(t, err)
}
