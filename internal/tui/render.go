package tui

import (
	"fmt"
	"image"
	"image/color"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/draw"
)

// UpperHalfBlock is drawn with the top pixel as foreground and the bottom
// pixel as background, giving two pixel rows per text row.
const UpperHalfBlock = "▀"

// spinnerFrames animate the preloader.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner returns the spinner glyph for animation step n.
func Spinner(n int) string {
	if n < 0 {
		n = -n
	}
	return spinnerFrames[n%len(spinnerFrames)]
}

// PadOrTruncate pads or truncates a string to exactly width characters.
// Uses visual width (rune count) for proper Unicode handling.
func PadOrTruncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	runeLen := utf8.RuneCountInString(s)
	if runeLen == width {
		return s
	}
	if runeLen < width {
		return s + strings.Repeat(" ", width-runeLen)
	}

	runes := []rune(s)
	if width >= 3 {
		return string(runes[:width-3]) + "..."
	}
	return string(runes[:width])
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// StripANSI removes escape sequences from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// VisibleWidth is the rune count of s without escape sequences.
func VisibleWidth(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

// ProgressBar renders a simple progress bar.
// Returns a string like "[████████░░░░░░░░]  50%"
func ProgressBar(current, total, width int) string {
	if total == 0 || width < 10 {
		return ""
	}

	pct := float64(current) / float64(total)
	if pct > 1 {
		pct = 1
	}

	barWidth := width - 7 // Space for "[] XXX%"
	filled := int(pct * float64(barWidth))
	empty := barWidth - filled

	bar := "[" +
		strings.Repeat("█", filled) +
		strings.Repeat("░", empty) +
		"]"

	return bar + " " + fmt.Sprintf("%3d", int(pct*100)) + "%"
}

// Style applies ANSI style codes to text.
func Style(s string, codes ...string) string {
	if len(codes) == 0 {
		return s
	}
	return strings.Join(codes, "") + s + Reset
}

// StatusColor returns an appropriate color code for a playback status.
func StatusColor(status string) string {
	switch strings.ToLower(status) {
	case "playing":
		return FgGreen
	case "paused":
		return FgYellow
	case "stopped":
		return FgBrightBlack
	default:
		return ""
	}
}

// FormatStatus formats a status string with appropriate color.
func FormatStatus(status string) string {
	color := StatusColor(status)
	if color == "" {
		return status
	}
	return Style(status, color, Bold)
}

// Crop returns the cell at row, col of a sprite sheet split into rows x
// cols equal cells.
func Crop(img image.Image, row, col, rows, cols int) image.Image {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	b := img.Bounds()
	w, h := b.Dx()/cols, b.Dy()/rows
	cell := image.Rect(b.Min.X+col*w, b.Min.Y+row*h, b.Min.X+(col+1)*w, b.Min.Y+(row+1)*h)

	if sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(cell)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, cell.Min, draw.Src)
	return dst
}

// RenderImage scales img to cols x rows text cells and returns one string
// per row, drawn with half blocks in 24-bit color.
func RenderImage(img image.Image, cols, rows int) []string {
	if img == nil || cols < 1 || rows < 1 || img.Bounds().Empty() {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	lines := make([]string, rows)
	var sb strings.Builder
	for y := 0; y < rows; y++ {
		sb.Reset()
		for x := 0; x < cols; x++ {
			top := dst.RGBAAt(x, 2*y)
			bottom := dst.RGBAAt(x, 2*y+1)
			sb.WriteString(fgColor(top))
			sb.WriteString(bgColor(bottom))
			sb.WriteString(UpperHalfBlock)
		}
		sb.WriteString(Reset)
		lines[y] = sb.String()
	}
	return lines
}

func fgColor(c color.RGBA) string {
	return FgRGB(c.R, c.G, c.B)
}

func bgColor(c color.RGBA) string {
	return BgRGB(c.R, c.G, c.B)
}

// FitCells returns the largest cols x rows area inside maxCols x maxRows
// that keeps the aspect ratio of a width x height image. Terminal cells are
// taken to be twice as tall as wide.
func FitCells(width, height, maxCols, maxRows int) (cols, rows int) {
	if width <= 0 || height <= 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}
	cols = maxCols
	rows = cols * height / width / 2
	if rows > maxRows {
		rows = maxRows
		cols = rows * 2 * width / height
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}
