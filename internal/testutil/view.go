package testutil

import (
	"image"
	"sync"

	"github.com/thruflo/reel/internal/frame"
)

// RecordingView records every call a player makes on its view.
type RecordingView struct {
	mu       sync.Mutex
	frames   []frame.Frame
	images   map[int]image.Image
	shown    int
	history  []int
	hideAlls int
	progress [][2]int
	resets   int
}

// NewRecordingView creates an empty RecordingView.
func NewRecordingView() *RecordingView {
	return &RecordingView{images: map[int]image.Image{}}
}

// Prepare records the frame layout.
func (v *RecordingView) Prepare(frames []frame.Frame, width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frames = frames
}

// SetImage records the image attached to a frame.
func (v *RecordingView) SetImage(f frame.Frame, img image.Image) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.images[f.Number] = img
}

// Show records frame n as the visible frame.
func (v *RecordingView) Show(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shown = n
	v.history = append(v.history, n)
}

// HideAll records that no frame is visible.
func (v *RecordingView) HideAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shown = 0
	v.hideAlls++
}

// Progress records preload progress.
func (v *RecordingView) Progress(loaded, total, spriteX, spriteY int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.progress = append(v.progress, [2]int{loaded, total})
}

// Reset records a teardown.
func (v *RecordingView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resets++
	v.shown = 0
}

// Shown returns the visible frame, 0 when none.
func (v *RecordingView) Shown() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.shown
}

// History returns every frame shown, in order.
func (v *RecordingView) History() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]int(nil), v.history...)
}

// Frames returns the prepared layout.
func (v *RecordingView) Frames() []frame.Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frames
}

// HasImage reports whether frame n received an image.
func (v *RecordingView) HasImage(n int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.images[n]
	return ok
}

// ProgressCalls returns recorded (loaded, total) pairs.
func (v *RecordingView) ProgressCalls() [][2]int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([][2]int(nil), v.progress...)
}

// Resets returns how often Reset was called.
func (v *RecordingView) Resets() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.resets
}
