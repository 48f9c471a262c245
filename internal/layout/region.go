package layout

// Region is a pixel rectangle on the normalized detail panel.
type Region struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// NewRegion builds a Region from the (top, left, bottom, right) order used
// by the layout documents.
func NewRegion(top, left, bottom, right int) Region {
	return Region{Top: top, Left: left, Bottom: bottom, Right: right}
}

// Width returns the horizontal extent of the region.
func (r Region) Width() int {
	return r.Right - r.Left
}

// Height returns the vertical extent of the region.
func (r Region) Height() int {
	return r.Bottom - r.Top
}

// Offset returns the region moved by dy rows and dx columns.
func (r Region) Offset(dy, dx int) Region {
	return Region{Top: r.Top + dy, Left: r.Left + dx, Bottom: r.Bottom + dy, Right: r.Right + dx}
}
