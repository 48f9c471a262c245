package analyzer

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/ivlev/umadetail/internal/imagetools"
	"github.com/ivlev/umadetail/internal/layout"
)

// PanelHeight is the canonical height every layout coordinate refers to.
const PanelHeight = 1000

// Bounds locates the panel on the raw screenshot.
type Bounds struct {
	Top    int // first row of the green header
	Bottom int // last row of the white footer
	Inset  int // columns cut from each side
}

// sample columns, as fractions of the width
var stripColumns = []float64{0.33, 0.5, 0.66}

// IsolatePanel crops the detail panel out of a screenshot. The top edge is
// the first row where any sample strip shows the header green, the bottom
// edge the last row where any shows the footer white. The width is cut
// symmetrically to the layout aspect ratio.
func IsolatePanel(m *imagetools.Mat, l *layout.Layout) (*imagetools.Mat, Bounds, error) {
	if m.Empty() || m.Channels != 3 {
		return nil, Bounds{}, fmt.Errorf("%w: need a color image", ErrPanelNotFound)
	}

	strips := make([]*imagetools.Mat, 0, len(stripColumns))
	for _, f := range stripColumns {
		x := int(float64(m.Cols) * f)
		strips = append(strips, m.Region(0, x, m.Rows, x+1))
	}
	probe, err := imagetools.HConcat(strips...)
	if err != nil {
		return nil, Bounds{}, err
	}

	top, bottom := -1, -1
	for y := 0; y < probe.Rows; y++ {
		if top < 0 && rowAny(probe, y, l.Panel.Green) {
			top = y
		}
		if rowAny(probe, y, l.Panel.White) {
			bottom = y
		}
	}
	if top < 0 {
		return nil, Bounds{}, fmt.Errorf("%w: no header row", ErrPanelNotFound)
	}
	if bottom < 0 {
		return nil, Bounds{}, fmt.Errorf("%w: no footer row", ErrPanelNotFound)
	}

	height := bottom - top
	b := Bounds{
		Top:    top,
		Bottom: bottom,
		Inset:  int((float64(m.Cols) - float64(height)*l.Aspect) / 2),
	}
	if height <= 0 || b.Inset < 0 || m.Cols-2*b.Inset <= 0 {
		return nil, b, fmt.Errorf("%w: degenerate panel %+v", ErrPanelNotFound, b)
	}
	return m.Region(b.Top, b.Inset, b.Bottom, m.Cols-b.Inset), b, nil
}

func rowAny(m *imagetools.Mat, y int, r imagetools.ColorRange) bool {
	for x := 0; x < m.Cols; x++ {
		if r.Contains(m.At(y, x)) {
			return true
		}
	}
	return false
}

// Normalize scales a cropped panel to PanelHeight.
func Normalize(panel *imagetools.Mat) (*imagetools.Mat, error) {
	return imagetools.ResizeByAspect(panel, PanelHeight)
}

// Load isolates and normalizes the panel of a decoded screenshot.
func (e *Extractor) Load(img image.Image) (*imagetools.Mat, error) {
	panel, b, err := IsolatePanel(imagetools.FromImage(img), e.layout)
	if err != nil {
		return nil, err
	}
	e.log.Debug().Int("top", b.Top).Int("bottom", b.Bottom).Int("inset", b.Inset).Msg("panel isolated")
	return Normalize(panel)
}

// Read decodes a screenshot file and returns its normalized panel.
func (e *Extractor) Read(path string) (*imagetools.Mat, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open screenshot: %w", err)
	}
	return e.Load(img)
}
