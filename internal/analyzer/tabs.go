package analyzer

import "github.com/ivlev/umadetail/internal/imagetools"

// SelectedTab names the tab shown on the panel. The selected tab is the
// one whose marker is not white.
func (e *Extractor) SelectedTab(m *imagetools.Mat) string {
	t := e.layout.Tabs
	switch {
	case !isWhite(m, t.Skill.Y, t.Skill.X, t.White):
		return t.Names[1]
	case !isWhite(m, t.Factor.Y, t.Factor.X, t.White):
		return t.Names[2]
	default:
		return t.Names[0]
	}
}

// Pixels outside the panel count as white.
func isWhite(m *imagetools.Mat, y, x int, r imagetools.ColorRange) bool {
	if y < 0 || x < 0 || y >= m.Rows || x >= m.Cols {
		return true
	}
	return r.Contains(m.At(y, x))
}
