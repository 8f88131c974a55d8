package tui

import (
	"fmt"
	"image"
	"io"
	"strings"
	"sync"

	"github.com/thruflo/reel/internal/frame"
)

// Screen is a player.View that draws frames on a terminal.
//
// Frames are rendered once, when their image arrives, and cached, so Show
// only writes prepared lines. The last line of the screen is a status line.
type Screen struct {
	mu sync.Mutex

	out        io.Writer
	cols, rows int

	frames  []frame.Frame
	grids   map[int][2]int // image index -> rows, cols
	drawn   map[int][]string
	shown   int
	status  string
	spinner int
}

// NewScreen creates a Screen drawing into a cols x rows cell area, the last
// row of which holds the status line.
func NewScreen(out io.Writer, cols, rows int) *Screen {
	if cols < 1 {
		cols = 80
	}
	if rows < 2 {
		rows = 24
	}
	return &Screen{
		out:   out,
		cols:  cols,
		rows:  rows,
		grids: map[int][2]int{},
		drawn: map[int][]string{},
	}
}

// Prepare records the frame layout.
func (s *Screen) Prepare(frames []frame.Frame, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frames = frames
	for _, f := range frames {
		g := s.grids[f.Image]
		if f.Row+1 > g[0] {
			g[0] = f.Row + 1
		}
		if f.Col+1 > g[1] {
			g[1] = f.Col + 1
		}
		s.grids[f.Image] = g
	}

	if width > 0 && height > 0 {
		s.cols, s.rows = s.fit(width, height)
	}
	fmt.Fprint(s.out, CursorHide+ClearScreen+CursorHome)
}

// fit keeps the movie's aspect ratio inside the screen area.
func (s *Screen) fit(width, height int) (int, int) {
	cols, rows := FitCells(width, height, s.cols, s.rows-1)
	return cols, rows + 1
}

// SetImage renders the frame's cell of img.
func (s *Screen) SetImage(f frame.Frame, img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.grids[f.Image]
	cell := Crop(img, f.Row, f.Col, g[0], g[1])
	s.drawn[f.Number] = RenderImage(cell, s.cols, s.rows-1)
}

// Show draws frame n.
func (s *Screen) Show(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, ok := s.drawn[n]
	if !ok {
		return
	}
	s.shown = n

	var sb strings.Builder
	sb.WriteString(CursorHome)
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\r\n")
	}
	sb.WriteString(s.statusLine())
	fmt.Fprint(s.out, sb.String())
}

// HideAll blanks the frame area.
func (s *Screen) HideAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = 0
	fmt.Fprint(s.out, ClearScreen+CursorHome)
}

// Progress draws the preloader.
func (s *Screen) Progress(loaded, total, spriteX, spriteY int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spinner++

	line := fmt.Sprintf("%s loading %d/%d %s", Spinner(s.spinner), loaded, total, ProgressBar(loaded, total, 30))
	fmt.Fprint(s.out, CursorTo(s.rows, 1)+ClearLine+Style(PadOrTruncate(line, s.cols), FgCyan))
}

// Reset clears the screen and restores the cursor.
func (s *Screen) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawn = map[int][]string{}
	s.shown = 0
	s.status = ""
	fmt.Fprint(s.out, Reset+ClearScreen+CursorHome+CursorShow)
}

// SetStatus replaces the text of the status line and redraws it.
func (s *Screen) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	fmt.Fprint(s.out, s.statusLine())
}

// Shown returns the frame on screen, 0 when none.
func (s *Screen) Shown() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown
}

// Size returns the drawing area in cells, including the status line.
func (s *Screen) Size() (cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols, s.rows
}

// statusLine must be called with s.mu held.
func (s *Screen) statusLine() string {
	text := fmt.Sprintf("frame %d/%d", s.shown, len(s.frames))
	if s.status != "" {
		text = s.status + "  " + text
	}
	if VisibleWidth(text) > s.cols {
		text = PadOrTruncate(StripANSI(text), s.cols)
	}
	return CursorTo(s.rows, 1) + ClearLine + text
}
