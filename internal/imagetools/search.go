package imagetools

import "image"

// Direction selects the axis and orientation of a SearchColor scan.
type Direction int

const (
	South Direction = iota // increasing row, fixed column
	North                  // decreasing row, fixed column
	East                   // increasing column, fixed row
	West                   // decreasing column, fixed row
)

// NotFound is returned by SearchColor when the scan is exhausted.
const NotFound = -1

// SearchColor walks from start (X column, Y row) in direction dir and
// returns the first row or column index whose pixel lies within
// [minRGB, maxRGB]. With except set it looks for the first pixel that is
// entirely below minRGB or entirely above maxRGB instead. North and West
// scans begin one step before start and never test index 0.
func SearchColor(m *Mat, dir Direction, start image.Point, minRGB, maxRGB RGB, except bool) int {
	var from, to, step int
	switch dir {
	case South:
		from, to, step = start.Y, m.Rows, 1
	case North:
		from, to, step = start.Y-1, 0, -1
	case East:
		from, to, step = start.X, m.Cols, 1
	case West:
		from, to, step = start.X-1, 0, -1
	default:
		return NotFound
	}

	vertical := dir == South || dir == North
	if vertical && (start.X < 0 || start.X >= m.Cols) {
		return NotFound
	}
	if !vertical && (start.Y < 0 || start.Y >= m.Rows) {
		return NotFound
	}

	var below, above RGB
	if except {
		for c := 0; c < 3; c++ {
			below[c] = minRGB[c] - 1
			above[c] = maxRGB[c] + 1
		}
	}

	for i := from; i != to; i += step {
		if i < 0 || (vertical && i >= m.Rows) || (!vertical && i >= m.Cols) {
			break
		}

		var px []uint8
		if vertical {
			px = m.At(i, start.X)
		} else {
			px = m.At(start.Y, i)
		}

		var hit bool
		if except {
			hit = IsColorRange(px, Gray(0), below, true) || IsColorRange(px, above, Gray(255), true)
		} else {
			hit = IsColorRange(px, minRGB, maxRGB, true)
		}
		if hit {
			return i
		}
	}
	return NotFound
}
