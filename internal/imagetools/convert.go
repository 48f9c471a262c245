package imagetools

import (
	"fmt"
	"image"
	"image/color"
)

// FromImage converts a decoded image into a Mat. Gray images become
// single-channel buffers, everything else is flattened to BGR.
func FromImage(img image.Image) *Mat {
	b := img.Bounds()

	switch src := img.(type) {
	case *image.Gray:
		m, _ := NewMat(b.Dy(), b.Dx(), 1)
		for y := 0; y < m.Rows; y++ {
			copy(m.Pix[y*m.Cols:(y+1)*m.Cols], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return m
	case *image.NRGBA:
		m, _ := NewMat(b.Dy(), b.Dx(), 3)
		for y := 0; y < m.Rows; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < m.Cols; x++ {
				m.Set(y, x, src.Pix[i+2], src.Pix[i+1], src.Pix[i])
				i += 4
			}
		}
		return m
	}

	m, _ := NewMat(b.Dy(), b.Dx(), 3)
	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			m.Set(y, x, c.B, c.G, c.R)
		}
	}
	return m
}

// Image converts the buffer back into an image.Image: *image.NRGBA for BGR
// buffers and *image.Gray for single-channel ones.
func (m *Mat) Image() (image.Image, error) {
	rect := image.Rect(0, 0, m.Cols, m.Rows)

	switch m.Channels {
	case 1:
		dst := image.NewGray(rect)
		copy(dst.Pix, m.Pix)
		return dst, nil
	case 3:
		dst := image.NewNRGBA(rect)
		for i, j := 0, 0; i < len(m.Pix); i, j = i+3, j+4 {
			dst.Pix[j] = m.Pix[i+2]
			dst.Pix[j+1] = m.Pix[i+1]
			dst.Pix[j+2] = m.Pix[i]
			dst.Pix[j+3] = 0xff
		}
		return dst, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, m.Channels)
	}
}

// Gray returns the intensity of the buffer as a single-channel Mat, using
// the same weights as the luminance helpers.
func (m *Mat) Gray() *Mat {
	if m.Channels == 1 {
		return m.Clone()
	}
	dst, _ := NewMat(m.Rows, m.Cols, 1)
	for i, j := 0, 0; j < len(dst.Pix); i, j = i+m.Channels, j+1 {
		b, g, r := int(m.Pix[i]), int(m.Pix[i+1]), int(m.Pix[i+2])
		dst.Pix[j] = uint8((r*299 + g*587 + b*114 + 500) / 1000)
	}
	return dst
}
