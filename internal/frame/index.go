// Package frame maps 1-based frame numbers onto source images and the
// sub-rectangle each frame occupies inside a grid-packed sprite sheet.
package frame

import "fmt"

// Grid describes how frames are packed inside one source image.
type Grid struct {
	Width   int `yaml:"width" json:"width" ini:"width"`
	Height  int `yaml:"height" json:"height" ini:"height"`
	Rows    int `yaml:"rows" json:"rows" ini:"rows"`
	Columns int `yaml:"columns" json:"columns" ini:"columns"`
}

// PerImage returns the number of frames in one source image.
func (g Grid) PerImage() int {
	return g.Rows * g.Columns
}

// Offset returns the background offset of the cell at row, col.
func (g Grid) Offset(row, col int) (x, y int) {
	return -col * g.Width, -row * g.Height
}

// Frame is one displayable slot of the movie.
type Frame struct {
	Number  int    // 1-based
	Image   int    // 0-based source image index
	Source  string // source image name
	Row     int
	Col     int
	OffsetX int
	OffsetY int
	Loaded  bool
	Failed  bool
}

// Index holds every frame of a movie. The layout is fixed at construction;
// only the loaded and failed flags change afterwards.
type Index struct {
	grid   Grid
	frames []Frame
	loaded int
}

// NewIndex lays out frames for images row-major inside each image.
func NewIndex(images []string, grid Grid) *Index {
	if grid.Rows < 1 {
		grid.Rows = 1
	}
	if grid.Columns < 1 {
		grid.Columns = 1
	}

	frames := make([]Frame, 0, len(images)*grid.PerImage())
	for i, src := range images {
		for row := 0; row < grid.Rows; row++ {
			for col := 0; col < grid.Columns; col++ {
				x, y := grid.Offset(row, col)
				frames = append(frames, Frame{
					Number:  len(frames) + 1,
					Image:   i,
					Source:  src,
					Row:     row,
					Col:     col,
					OffsetX: x,
					OffsetY: y,
				})
			}
		}
	}

	return &Index{grid: grid, frames: frames}
}

// Grid returns the grid the index was built with.
func (x *Index) Grid() Grid {
	return x.grid
}

// Total returns imageCount * rows * columns.
func (x *Index) Total() int {
	return len(x.frames)
}

// Images returns the number of source images.
func (x *Index) Images() int {
	if len(x.frames) == 0 {
		return 0
	}
	return len(x.frames) / x.grid.PerImage()
}

// Contains reports whether n is a valid frame number.
func (x *Index) Contains(n int) bool {
	return n >= 1 && n <= len(x.frames)
}

// Frame returns a copy of frame n.
func (x *Index) Frame(n int) (Frame, bool) {
	if !x.Contains(n) {
		return Frame{}, false
	}
	return x.frames[n-1], true
}

// Frames returns a copy of all frames in order.
func (x *Index) Frames() []Frame {
	out := make([]Frame, len(x.frames))
	copy(out, x.frames)
	return out
}

// ImageOf returns the source image index of frame n, or -1.
func (x *Index) ImageOf(n int) int {
	if !x.Contains(n) {
		return -1
	}
	return (n - 1) / x.grid.PerImage()
}

// FramesOf returns the first and last frame numbers cut from image.
func (x *Index) FramesOf(image int) (first, last int, err error) {
	if image < 0 || image >= x.Images() {
		return 0, 0, fmt.Errorf("image %d out of range [0,%d)", image, x.Images())
	}
	per := x.grid.PerImage()
	return image*per + 1, image*per + per, nil
}

// MarkLoaded flags every frame of image as loaded and returns its frame range.
func (x *Index) MarkLoaded(image int) (first, last int, err error) {
	first, last, err = x.FramesOf(image)
	if err != nil {
		return 0, 0, err
	}
	for n := first; n <= last; n++ {
		f := &x.frames[n-1]
		if !f.Loaded {
			f.Loaded = true
			f.Failed = false
			x.loaded++
		}
	}
	return first, last, nil
}

// MarkFailed flags every frame of image as permanently unloadable.
func (x *Index) MarkFailed(image int) (first, last int, err error) {
	first, last, err = x.FramesOf(image)
	if err != nil {
		return 0, 0, err
	}
	for n := first; n <= last; n++ {
		if !x.frames[n-1].Loaded {
			x.frames[n-1].Failed = true
		}
	}
	return first, last, nil
}

// IsLoaded reports whether frame n may be displayed.
func (x *Index) IsLoaded(n int) bool {
	return x.Contains(n) && x.frames[n-1].Loaded
}

// LoadedCount returns the number of loaded frames.
func (x *Index) LoadedCount() int {
	return x.loaded
}
