// Package sequence expands numeric filename patterns such as "image####.jpg"
// into the ordered list of image names a movie is built from.
package sequence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Placeholder is the character marking where the frame index goes.
const Placeholder = '#'

// ErrNoPlaceholder is returned when a pattern has no '#' run to expand.
var ErrNoPlaceholder = errors.New("sequence pattern has no placeholder")

// Digits returns the natural digit count of an index: max(1, floor(log10(i))+1).
func Digits(index int) int {
	if index < 0 {
		index = -index
	}
	digits := 1
	for index >= 10 {
		index /= 10
		digits++
	}
	return digits
}

// Expand returns one name per index from from to to (inclusive) stepping by
// step. The last run of '#' is replaced by the index, zero-padded to the
// wider of the run and the index's own digit count, so indices never get
// truncated. Any other '#' becomes '0'. A from greater than to yields an
// empty list.
func Expand(pattern string, from, to, step int) ([]string, error) {
	if step < 1 {
		return nil, fmt.Errorf("sequence step must be positive, got %d", step)
	}

	end := strings.LastIndexByte(pattern, Placeholder) + 1
	if end == 0 {
		return nil, ErrNoPlaceholder
	}
	start := end - 1
	for start > 0 && pattern[start-1] == Placeholder {
		start--
	}
	prefix := strings.ReplaceAll(pattern[:start], string(Placeholder), "0")
	suffix := pattern[end:]
	width := end - start

	if from > to {
		return []string{}, nil
	}

	// uint keeps the span exact when to-from exceeds MaxInt.
	count := uint(to-from)/uint(step) + 1
	names := make([]string, 0, count)
	for i := from; ; i += step {
		names = append(names, prefix+pad(i, width)+suffix)
		// Checked before stepping so i never overflows past to.
		if to-i < step {
			break
		}
	}
	return names, nil
}

func pad(index, width int) string {
	digits := strconv.Itoa(index)
	if index < 0 {
		return digits
	}
	if n := width - Digits(index); n > 0 {
		return strings.Repeat("0", n) + digits
	}
	return digits
}

// Resolve returns the image list for a movie: the explicit images when given,
// otherwise the expansion of pattern. A pattern without a placeholder is kept
// as a single literal image name.
func Resolve(images []string, pattern string, from, to, step int) ([]string, error) {
	if pattern == "" {
		out := make([]string, len(images))
		copy(out, images)
		return out, nil
	}

	names, err := Expand(pattern, from, to, step)
	if errors.Is(err, ErrNoPlaceholder) {
		return []string{pattern}, nil
	}
	if err != nil {
		return nil, err
	}
	return names, nil
}
