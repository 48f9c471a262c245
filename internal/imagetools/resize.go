package imagetools

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ResizeByAspect scales m so that its height becomes targetHeight, keeping
// the aspect ratio. The new width is rounded to the nearest pixel.
func ResizeByAspect(m *Mat, targetHeight int) (*Mat, error) {
	if targetHeight <= 0 {
		return nil, fmt.Errorf("resize: target height must be positive, got %d", targetHeight)
	}
	if m.Empty() {
		return nil, fmt.Errorf("resize: empty image")
	}

	width := int(math.Round(float64(targetHeight) * float64(m.Cols) / float64(m.Rows)))
	if width < 1 {
		width = 1
	}
	if width == m.Cols && targetHeight == m.Rows {
		return m.Clone(), nil
	}

	src, err := m.Image()
	if err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, width, targetHeight)
	var dst draw.Image
	if m.Channels == 1 {
		dst = image.NewGray(rect)
	} else {
		dst = image.NewNRGBA(rect)
	}
	draw.BiLinear.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)

	return FromImage(dst), nil
}
