// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"fmt"
	"math"
)

// TrackHeight is the height of one track row in pixels.
const TrackHeight = 100

// Grid is the on-screen geometry of the timeline, used to turn a drop
// position into a track and beat.
type Grid struct {
	Left, Top     float64
	Width, Height float64
	ScrollX       float64
	TrackCount    int
}

// BeatWidth is how wide one beat is drawn at bpm.
func (g Grid) BeatWidth(bpm int) float64 {
	if bpm <= 0 {
		return 0
	}
	return g.Width / float64(bpm)
}

// Locate maps a pointer position to a track (numbered from 1) and beat.
func (g Grid) Locate(x, y float64, bpm int) (track, beat uint, err error) {
	width := g.BeatWidth(bpm)
	switch {
	case width <= 0:
		return 0, 0, fmt.Errorf("%w: empty grid", ErrOutsideGrid)
	case x < g.Left || x > g.Left+g.Width || y < g.Top || (g.Height > 0 && y > g.Top+g.Height):
		return 0, 0, fmt.Errorf("%w: (%.0f, %.0f)", ErrOutsideGrid, x, y)
	case y-g.Top >= float64(g.TrackCount*TrackHeight):
		return 0, 0, fmt.Errorf("%w: below the last track", ErrOutsideGrid)
	}

	row := math.Floor((y - g.Top) / TrackHeight)
	col := math.Floor((x - g.Left + g.ScrollX) / width)

	return uint(row) + 1, uint(max(col, 0)), nil
}
