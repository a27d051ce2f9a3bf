// Package render draws z-slices of a maze grid as text.
package render

import (
	"fmt"
	"io"
	"strings"

	"voxelmaze.ai/internal/maze"
)

const (
	WallGlyph = '█'
	OpenGlyph = ' '
)

// Slice renders slice z of g, one line per y row. Cells equal to wall are
// drawn as WallGlyph and everything else as OpenGlyph.
func Slice[T comparable](g maze.Grid[T], z int, wall T) string {
	if z < 0 || z >= g.Depth() {
		return ""
	}
	var b strings.Builder
	for y := 0; y < g.Height(z); y++ {
		for x := 0; x < g.Width(z, y); x++ {
			if g.At(x, y, z) == wall {
				b.WriteRune(WallGlyph)
			} else {
				b.WriteRune(OpenGlyph)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Slices writes every slice of g to w under a "-- z=N --" header.
func Slices[T comparable](w io.Writer, g maze.Grid[T], wall T) error {
	for z := 0; z < g.Depth(); z++ {
		if _, err := fmt.Fprintf(w, "-- z=%d --\n", z); err != nil {
			return err
		}
		if _, err := io.WriteString(w, Slice(g, z, wall)); err != nil {
			return err
		}
	}
	return nil
}

// SliceStrings returns one rendered string per slice.
func SliceStrings[T comparable](g maze.Grid[T], wall T) []string {
	out := make([]string, g.Depth())
	for z := range out {
		out[z] = Slice(g, z, wall)
	}
	return out
}
