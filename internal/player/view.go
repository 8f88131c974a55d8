package player

import (
	"image"

	"github.com/thruflo/reel/internal/frame"
)

// View renders frames. A player calls its view with the player lock held, so
// implementations must not call back into the player.
type View interface {
	// Prepare creates one element per frame, sized width x height.
	Prepare(frames []frame.Frame, width, height int)
	// SetImage attaches a loaded source image to a frame.
	SetImage(f frame.Frame, img image.Image)
	// Show makes frame n the only visible frame.
	Show(n int)
	// HideAll hides every frame.
	HideAll()
	// Progress reports preload progress in images together with the
	// preloader sprite offset for the current animation cell.
	Progress(loaded, total, spriteX, spriteY int)
	// Reset removes everything Prepare created.
	Reset()
}

// NopView discards all rendering.
type NopView struct{}

func (NopView) Prepare([]frame.Frame, int, int)   {}
func (NopView) SetImage(frame.Frame, image.Image) {}
func (NopView) Show(int)                          {}
func (NopView) HideAll()                          {}
func (NopView) Progress(int, int, int, int)       {}
func (NopView) Reset()                            {}
