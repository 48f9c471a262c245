package imagetools

// RGB is a color triplet in R, G, B order. Values are ints so that ranges
// widened past 0..255 stay representable.
type RGB [3]int

// Gray returns the triplet with all channels set to v.
func Gray(v int) RGB {
	return RGB{v, v, v}
}

// ColorRange is an inclusive per-channel range.
type ColorRange struct {
	Min RGB
	Max RGB
}

// Contains tests a BGR pixel against the range.
func (r ColorRange) Contains(px []uint8) bool {
	return IsColorRange(px, r.Min, r.Max, true)
}

// ContainsStrict tests a BGR pixel against the open range (Min, Max).
func (r ColorRange) ContainsStrict(px []uint8) bool {
	for c := 0; c < 3; c++ {
		v := int(px[2-c])
		if v <= r.Min[c] || v >= r.Max[c] {
			return false
		}
	}
	return true
}

// IsColorRange reports whether every channel of px lies within [min, max].
// With reversed set px is read back to front, which lets BGR pixels be
// compared against RGB thresholds.
func IsColorRange(px []uint8, min, max RGB, reversed bool) bool {
	if len(px) < 3 {
		return false
	}
	for c := 0; c < 3; c++ {
		v := int(px[c])
		if reversed {
			v = int(px[2-c])
		}
		if v < min[c] || v > max[c] {
			return false
		}
	}
	return true
}

// Luminance returns the perceived brightness of an RGB color on a 0..100
// scale.
func Luminance(c RGB) float64 {
	return float64(c[0]*299+c[1]*587+c[2]*114) / 2550
}

// ExceptLightColor returns a copy of m where every pixel brighter than
// threshold (0..100) is replaced with white.
func ExceptLightColor(m *Mat, threshold int) *Mat {
	dst := m.Clone()
	if dst.Channels != 3 {
		for i, v := range dst.Pix {
			if int(Luminance(Gray(int(v)))) > threshold {
				dst.Pix[i] = 0xff
			}
		}
		return dst
	}
	for i := 0; i < len(dst.Pix); i += 3 {
		c := RGB{int(dst.Pix[i+2]), int(dst.Pix[i+1]), int(dst.Pix[i])}
		if int(Luminance(c)) > threshold {
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = 0xff, 0xff, 0xff
		}
	}
	return dst
}

// ExceptOutsideColor crops m to the bounding box of the pixels that lie
// strictly inside r. When no pixel qualifies m is returned as is.
func ExceptOutsideColor(m *Mat, r ColorRange) *Mat {
	if m.Channels != 3 {
		return m
	}
	top, left, bottom, right := m.Rows, m.Cols, -1, -1
	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			if !r.ContainsStrict(m.At(y, x)) {
				continue
			}
			top, bottom = min(top, y), max(bottom, y)
			left, right = min(left, x), max(right, x)
		}
	}
	if bottom < 0 {
		return m
	}
	return m.Region(top, left, bottom+1, right+1)
}

// CountInRange counts the pixels of m strictly inside r.
func CountInRange(m *Mat, r ColorRange) int {
	if m.Channels != 3 {
		return 0
	}
	n := 0
	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			if r.ContainsStrict(m.At(y, x)) {
				n++
			}
		}
	}
	return n
}
