package tui

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadOrTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"exact", "frame", 5, "frame"},
		{"pad", "frame", 8, "frame   "},
		{"truncate", "frame 12/30", 8, "frame..."},
		{"tiny width", "frame", 2, "fr"},
		{"zero width", "frame", 0, ""},
		{"unicode", "▀▀▀", 4, "▀▀▀ "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PadOrTruncate(tt.input, tt.width))
		})
	}
}

func TestStripANSI(t *testing.T) {
	t.Parallel()

	styled := FormatStatus("playing") + " " + FgRGB(1, 2, 3) + "x" + CursorTo(3, 4)
	assert.Equal(t, "playing x", StripANSI(styled))
	assert.Equal(t, 9, VisibleWidth(styled))
	assert.Equal(t, 3, VisibleWidth("▀▀▀"))
}

func TestProgressBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		current, total int
		width          int
		want           string
	}{
		{"empty", 0, 4, 17, "[░░░░░░░░░░]   0%"},
		{"half", 2, 4, 17, "[█████░░░░░]  50%"},
		{"full", 4, 4, 17, "[██████████] 100%"},
		{"over", 9, 4, 17, "[██████████] 100%"},
		{"no total", 0, 0, 17, ""},
		{"too narrow", 1, 2, 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ProgressBar(tt.current, tt.total, tt.width))
		})
	}
}

func TestSpinner(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Spinner(0), Spinner(len(spinnerFrames)))
	assert.NotEqual(t, Spinner(0), Spinner(1))
	assert.NotEmpty(t, Spinner(-3))
}

func TestFormatStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FgGreen+Bold+"playing"+Reset, FormatStatus("playing"))
	assert.Equal(t, FgYellow+Bold+"paused"+Reset, FormatStatus("paused"))
	assert.Equal(t, "loading", FormatStatus("loading"))
}

// quadrants returns a 4x4 image with red, green, blue and white 2x2 cells.
func quadrants() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	colors := [2][2]color.RGBA{
		{{255, 0, 0, 255}, {0, 255, 0, 255}},
		{{0, 0, 255, 255}, {255, 255, 255, 255}},
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, colors[y/2][x/2])
		}
	}
	return img
}

func TestCrop(t *testing.T) {
	t.Parallel()

	img := quadrants()

	tests := []struct {
		name     string
		row, col int
		want     color.RGBA
	}{
		{"top left", 0, 0, color.RGBA{255, 0, 0, 255}},
		{"top right", 0, 1, color.RGBA{0, 255, 0, 255}},
		{"bottom left", 1, 0, color.RGBA{0, 0, 255, 255}},
		{"bottom right", 1, 1, color.RGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cell := Crop(img, tt.row, tt.col, 2, 2)
			b := cell.Bounds()
			assert.Equal(t, 2, b.Dx())
			assert.Equal(t, 2, b.Dy())
			assert.Equal(t, tt.want, color.RGBAModel.Convert(cell.At(b.Min.X, b.Min.Y)))
		})
	}

	whole := Crop(img, 0, 0, 0, 0)
	assert.Equal(t, img.Bounds(), whole.Bounds())
}

func TestRenderImage(t *testing.T) {
	t.Parallel()

	red := image.NewUniform(color.RGBA{255, 0, 0, 255})
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, red)
		}
	}

	lines := RenderImage(img, 3, 2)
	require.Len(t, lines, 2)

	cell := FgRGB(255, 0, 0) + BgRGB(255, 0, 0) + UpperHalfBlock
	assert.Equal(t, strings.Repeat(cell, 3)+Reset, lines[0])
	assert.Equal(t, lines[0], lines[1])

	assert.Nil(t, RenderImage(img, 0, 2))
	assert.Nil(t, RenderImage(nil, 3, 2))
}

func TestFitCells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		width, height      int
		maxCols, maxRows   int
		wantCols, wantRows int
	}{
		{"wide movie", 640, 480, 80, 60, 80, 30},
		{"limited by rows", 640, 480, 80, 20, 53, 20},
		{"square", 100, 100, 40, 40, 40, 20},
		{"invalid", 0, 100, 40, 40, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cols, rows := FitCells(tt.width, tt.height, tt.maxCols, tt.maxRows)
			assert.Equal(t, tt.wantCols, cols)
			assert.Equal(t, tt.wantRows, rows)
		})
	}
}
