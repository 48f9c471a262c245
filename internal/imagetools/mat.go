package imagetools

import (
	"errors"
	"fmt"
)

// ErrUnsupportedChannels is returned for buffers that are neither
// single-channel gray nor 3-channel BGR.
var ErrUnsupportedChannels = errors.New("unsupported channel count")

// Mat is a row-major pixel buffer. 3-channel buffers store pixels in BGR
// order, the layout screenshots are scanned in; 1-channel buffers hold
// intensity.
type Mat struct {
	Rows     int
	Cols     int
	Channels int
	Pix      []uint8
}

// NewMat allocates a zeroed buffer.
func NewMat(rows, cols, channels int) (*Mat, error) {
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	}
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("invalid size %dx%d", cols, rows)
	}
	return &Mat{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Pix:      make([]uint8, rows*cols*channels),
	}, nil
}

// Empty reports whether the buffer has no pixels.
func (m *Mat) Empty() bool {
	return m == nil || m.Rows == 0 || m.Cols == 0
}

func (m *Mat) offset(y, x int) int {
	return (y*m.Cols + x) * m.Channels
}

// At returns the channels of the pixel at row y, column x. The slice
// aliases the buffer.
func (m *Mat) At(y, x int) []uint8 {
	i := m.offset(y, x)
	return m.Pix[i : i+m.Channels]
}

// Set overwrites the pixel at row y, column x.
func (m *Mat) Set(y, x int, px ...uint8) {
	copy(m.At(y, x), px)
}

// Fill paints every pixel of the rectangle [top,bottom)x[left,right) with px.
// The rectangle is clamped to the buffer.
func (m *Mat) Fill(top, left, bottom, right int, px ...uint8) {
	top, bottom = clampSpan(top, bottom, m.Rows)
	left, right = clampSpan(left, right, m.Cols)
	for y := top; y < bottom; y++ {
		for x := left; x < right; x++ {
			m.Set(y, x, px...)
		}
	}
}

// Clone returns a deep copy.
func (m *Mat) Clone() *Mat {
	pix := make([]uint8, len(m.Pix))
	copy(pix, m.Pix)
	return &Mat{Rows: m.Rows, Cols: m.Cols, Channels: m.Channels, Pix: pix}
}

// Region copies the rows [top,bottom) and columns [left,right). Bounds are
// clamped the way slicing a numpy array is, so an out-of-range window yields
// a smaller (possibly empty) buffer instead of a panic.
func (m *Mat) Region(top, left, bottom, right int) *Mat {
	top, bottom = clampSpan(top, bottom, m.Rows)
	left, right = clampSpan(left, right, m.Cols)

	dst := &Mat{
		Rows:     bottom - top,
		Cols:     right - left,
		Channels: m.Channels,
	}
	dst.Pix = make([]uint8, dst.Rows*dst.Cols*dst.Channels)
	rowLen := dst.Cols * m.Channels
	for y := 0; y < dst.Rows; y++ {
		src := m.offset(top+y, left)
		copy(dst.Pix[y*rowLen:(y+1)*rowLen], m.Pix[src:src+rowLen])
	}
	return dst
}

// HConcat joins buffers of equal height and channel count side by side.
func HConcat(mats ...*Mat) (*Mat, error) {
	if len(mats) == 0 {
		return nil, errors.New("hconcat: no input")
	}
	rows, channels, cols := mats[0].Rows, mats[0].Channels, 0
	for _, m := range mats {
		if m.Rows != rows || m.Channels != channels {
			return nil, fmt.Errorf("hconcat: shape mismatch %dx%dx%d vs %dx%dx%d",
				m.Rows, m.Cols, m.Channels, rows, mats[0].Cols, channels)
		}
		cols += m.Cols
	}

	dst, err := NewMat(rows, cols, channels)
	if err != nil {
		return nil, err
	}
	for y := 0; y < rows; y++ {
		x := 0
		for _, m := range mats {
			n := m.Cols * channels
			copy(dst.Pix[dst.offset(y, x):], m.Pix[m.offset(y, 0):m.offset(y, 0)+n])
			x += m.Cols
		}
	}
	return dst, nil
}

func clampSpan(lo, hi, n int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
