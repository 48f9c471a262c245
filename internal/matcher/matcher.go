package matcher

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/ivlev/umadetail/internal/imagetools"
	"github.com/ivlev/umadetail/internal/system"
)

// ErrTemplateTooLarge is returned when the template exceeds the image on
// one axis only, so neither can slide inside the other.
var ErrTemplateTooLarge = errors.New("template larger than search image")

// Result holds the extremes of the correlation map.
type Result struct {
	MinVal float64
	MaxVal float64
	MinLoc image.Point
	MaxLoc image.Point
	Size   image.Point // size of the window that was slid (width, height)
}

// MaxRect returns the best matching box as (left, top, right, bottom).
func (r Result) MaxRect() image.Rectangle {
	return image.Rectangle{Min: r.MaxLoc, Max: r.MaxLoc.Add(r.Size)}
}

// MinRect returns the worst matching box.
func (r Result) MinRect() image.Rectangle {
	return image.Rectangle{Min: r.MinLoc, Max: r.MinLoc.Add(r.Size)}
}

// Match slides tmpl over img and scores every offset with the normalized
// correlation coefficient (1 is a perfect match, -1 an inverted one). Both
// inputs are reduced to intensity first. When img is the smaller of the
// two in both dimensions the roles are swapped and the smaller one is slid
// over the larger.
func Match(img, tmpl *imagetools.Mat) (Result, error) {
	if img.Empty() || tmpl.Empty() {
		return Result{}, errors.New("match: empty input")
	}

	src, pat := img.Gray(), tmpl.Gray()
	if src.Rows <= pat.Rows && src.Cols <= pat.Cols && (src.Rows < pat.Rows || src.Cols < pat.Cols) {
		src, pat = pat, src
	}
	if pat.Rows > src.Rows || pat.Cols > src.Cols {
		return Result{}, fmt.Errorf("%w: %dx%d in %dx%d", ErrTemplateTooLarge, pat.Cols, pat.Rows, src.Cols, src.Rows)
	}

	tz, tnorm := zeroMean(pat)
	w := pat.Cols

	sum, sq := integrals(src)
	defer system.PutFloats(sum)
	defer system.PutFloats(sq)

	return scan(src, sum, sq, pat, tnorm, func(x, y int) float64 {
		var cross float64
		for ty := 0; ty < pat.Rows; ty++ {
			row := src.Pix[(y+ty)*src.Cols+x : (y+ty)*src.Cols+x+w]
			trow := tz[ty*w : (ty+1)*w]
			for tx, v := range row {
				cross += float64(v) * trow[tx]
			}
		}
		return cross
	}), nil
}

// scan scores every offset of pat inside src. cross returns the sum of
// src times the zero-mean template for the window at (x, y).
func scan(src *imagetools.Mat, sum, sq []float64, pat *imagetools.Mat, tnorm float64, cross func(x, y int) float64) Result {
	w, h := pat.Cols, pat.Rows
	n := float64(w * h)
	stride := src.Cols + 1
	window := func(tab []float64, x, y int) float64 {
		return tab[(y+h)*stride+x+w] - tab[y*stride+x+w] - tab[(y+h)*stride+x] + tab[y*stride+x]
	}

	res := Result{MinVal: math.Inf(1), MaxVal: math.Inf(-1), Size: image.Pt(w, h)}
	for y := 0; y+h <= src.Rows; y++ {
		for x := 0; x+w <= src.Cols; x++ {
			s := window(sum, x, y)
			variance := window(sq, x, y) - s*s/n
			score := correlation(cross(x, y), variance, tnorm)

			if score < res.MinVal {
				res.MinVal, res.MinLoc = score, image.Pt(x, y)
			}
			if score > res.MaxVal {
				res.MaxVal, res.MaxLoc = score, image.Pt(x, y)
			}
		}
	}
	return res
}

func zeroMean(pat *imagetools.Mat) ([]float64, float64) {
	var tsum float64
	for _, v := range pat.Pix {
		tsum += float64(v)
	}
	tmean := tsum / float64(len(pat.Pix))
	tz := make([]float64, len(pat.Pix))
	var tnorm float64
	for i, v := range pat.Pix {
		tz[i] = float64(v) - tmean
		tnorm += tz[i] * tz[i]
	}
	return tz, tnorm
}

// MaxPoint runs Match and returns the best matching box.
func MaxPoint(img, tmpl *imagetools.Mat) (image.Rectangle, error) {
	res, err := Match(img, tmpl)
	if err != nil {
		return image.Rectangle{}, err
	}
	return res.MaxRect(), nil
}

// MinPoint runs Match and returns the worst matching box.
func MinPoint(img, tmpl *imagetools.Mat) (image.Rectangle, error) {
	res, err := Match(img, tmpl)
	if err != nil {
		return image.Rectangle{}, err
	}
	return res.MinRect(), nil
}

func correlation(cross, variance, tnorm float64) float64 {
	denom := math.Sqrt(math.Max(variance, 0) * tnorm)
	if denom < 1e-9 {
		return 0
	}
	c := cross / denom
	// clamp float drift
	return math.Max(-1, math.Min(1, c))
}

// integrals builds summed-area tables of values and squared values with a
// leading zero row and column.
func integrals(m *imagetools.Mat) (sum, sq []float64) {
	stride := m.Cols + 1
	sum = system.GetFloats((m.Rows + 1) * stride)
	sq = system.GetFloats((m.Rows + 1) * stride)
	for y := 0; y < m.Rows; y++ {
		var rs, rq float64
		for x := 0; x < m.Cols; x++ {
			v := float64(m.Pix[y*m.Cols+x])
			rs += v
			rq += v * v
			sum[(y+1)*stride+x+1] = sum[y*stride+x+1] + rs
			sq[(y+1)*stride+x+1] = sq[y*stride+x+1] + rq
		}
	}
	return sum, sq
}
