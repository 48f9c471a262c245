package matcher

import (
	"errors"

	"github.com/ivlev/umadetail/internal/imagetools"
)

// Searcher is a search image prepared for repeated Match calls. The
// correlation of each template is taken in the frequency domain against a
// spectrum computed once, so large images such as the skill strip are
// scanned in O(N log N) per template instead of O(N * template area).
//
// A Searcher is read-only after NewSearcher and may be shared between
// goroutines.
type Searcher struct {
	src      *imagetools.Mat
	sum, sq  []float64
	pw, ph   int // padded spectrum size, powers of two
	spectrum []complex128
}

// NewSearcher prepares img for matching.
func NewSearcher(img *imagetools.Mat) (*Searcher, error) {
	if img.Empty() {
		return nil, errors.New("match: empty input")
	}
	src := img.Gray()
	s := &Searcher{src: src, pw: nextPow2(src.Cols), ph: nextPow2(src.Rows)}
	// kept for the lifetime of the searcher, never returned to the pool
	s.sum, s.sq = integrals(src)

	s.spectrum = make([]complex128, s.pw*s.ph)
	for y := 0; y < src.Rows; y++ {
		for x := 0; x < src.Cols; x++ {
			s.spectrum[y*s.pw+x] = complex(float64(src.Pix[y*src.Cols+x]), 0)
		}
	}
	fft2(s.spectrum, s.pw, s.ph, false)
	return s, nil
}

// Match scores tmpl against the prepared image like Match(img, tmpl).
// Templates that do not fit inside the image fall back to Match, which
// applies the swap rule.
func (s *Searcher) Match(tmpl *imagetools.Mat) (Result, error) {
	if tmpl.Empty() {
		return Result{}, errors.New("match: empty input")
	}
	pat := tmpl.Gray()
	if pat.Rows > s.src.Rows || pat.Cols > s.src.Cols {
		return Match(s.src, pat)
	}

	tz, tnorm := zeroMean(pat)

	// Correlation theorem: IFFT(F(src) * conj(F(tz))) at (x, y) is the
	// cross term of the window at (x, y). The padded size is at least the
	// image size, so valid windows never wrap.
	corr := make([]complex128, len(s.spectrum))
	for y := 0; y < pat.Rows; y++ {
		for x := 0; x < pat.Cols; x++ {
			corr[y*s.pw+x] = complex(tz[y*pat.Cols+x], 0)
		}
	}
	fft2(corr, s.pw, s.ph, false)
	for i, v := range corr {
		corr[i] = s.spectrum[i] * complex(real(v), -imag(v))
	}
	fft2(corr, s.pw, s.ph, true)

	return scan(s.src, s.sum, s.sq, pat, tnorm, func(x, y int) float64 {
		return real(corr[y*s.pw+x])
	}), nil
}
