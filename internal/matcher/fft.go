package matcher

import (
	"math"
	"math/cmplx"
)

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// fft transforms a in place. len(a) must be a power of two. The inverse
// transform is scaled by 1/len(a).
func fft(a []complex128, inverse bool) {
	n := len(a)
	if n < 2 {
		return
	}

	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}

	sign := -1.0
	if inverse {
		sign = 1
	}
	twiddle := make([]complex128, n/2)
	for k := range twiddle {
		twiddle[k] = cmplx.Rect(1, sign*2*math.Pi*float64(k)/float64(n))
	}

	for size := 2; size <= n; size <<= 1 {
		half, step := size/2, n/size
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				u := a[start+k]
				v := a[start+k+half] * twiddle[k*step]
				a[start+k] = u + v
				a[start+k+half] = u - v
			}
		}
	}

	if inverse {
		scale := complex(1/float64(n), 0)
		for i := range a {
			a[i] *= scale
		}
	}
}

// fft2 transforms a row-major cols x rows grid in place.
func fft2(a []complex128, cols, rows int, inverse bool) {
	for y := 0; y < rows; y++ {
		fft(a[y*cols:(y+1)*cols], inverse)
	}
	col := make([]complex128, rows)
	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			col[y] = a[y*cols+x]
		}
		fft(col, inverse)
		for y := 0; y < rows; y++ {
			a[y*cols+x] = col[y]
		}
	}
}
