package matcher

import (
	"errors"
	"image"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/ivlev/umadetail/internal/imagetools"
)

func noise(rows, cols int, seed int64) *imagetools.Mat {
	rng := rand.New(rand.NewSource(seed))
	m, _ := imagetools.NewMat(rows, cols, 1)
	for i := range m.Pix {
		m.Pix[i] = uint8(rng.Intn(256))
	}
	return m
}

func TestMatchFindsEmbeddedPatch(t *testing.T) {
	img := noise(60, 80, 1)

	tests := []struct {
		name string
		at   image.Point
	}{
		{"origin", image.Pt(0, 0)},
		{"middle", image.Pt(31, 17)},
		{"bottom right", image.Pt(68, 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := img.Region(tt.at.Y, tt.at.X, tt.at.Y+10, tt.at.X+12)

			res, err := Match(img, tmpl)
			if err != nil {
				t.Fatalf("Match failed: %v", err)
			}
			if res.MaxLoc != tt.at {
				t.Errorf("MaxLoc = %v, want %v", res.MaxLoc, tt.at)
			}
			if math.Abs(res.MaxVal-1) > 1e-6 {
				t.Errorf("MaxVal = %f, want 1", res.MaxVal)
			}
			if res.MinVal >= res.MaxVal {
				t.Errorf("MinVal %f should be below MaxVal %f", res.MinVal, res.MaxVal)
			}
			want := image.Rect(tt.at.X, tt.at.Y, tt.at.X+12, tt.at.Y+10)
			if got := res.MaxRect(); got != want {
				t.Errorf("MaxRect = %v, want %v", got, want)
			}
		})
	}
}

func TestMatchInvertedPatch(t *testing.T) {
	img := noise(30, 30, 2)
	tmpl := img.Region(5, 7, 15, 17)
	for i, v := range tmpl.Pix {
		tmpl.Pix[i] = 255 - v
	}

	res, err := Match(img, tmpl)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if res.MinLoc != image.Pt(7, 5) {
		t.Errorf("MinLoc = %v, want (7,5)", res.MinLoc)
	}
	if math.Abs(res.MinVal+1) > 1e-6 {
		t.Errorf("MinVal = %f, want -1", res.MinVal)
	}

	rect, err := MinPoint(img, tmpl)
	if err != nil {
		t.Fatalf("MinPoint failed: %v", err)
	}
	if rect != image.Rect(7, 5, 17, 15) {
		t.Errorf("MinPoint = %v", rect)
	}
}

func TestMatchSwapsSmallerImage(t *testing.T) {
	strip := noise(20, 90, 3)
	crop := strip.Region(0, 40, 20, 60)

	// The crop is passed as the image; it is slid over the strip instead.
	rect, err := MaxPoint(crop, strip)
	if err != nil {
		t.Fatalf("MaxPoint failed: %v", err)
	}
	if rect.Min.X != 40 || rect.Min.Y != 0 {
		t.Errorf("best match at %v, want x=40", rect.Min)
	}
}

func TestMatchColorInput(t *testing.T) {
	img, _ := imagetools.NewMat(20, 20, 3)
	rng := rand.New(rand.NewSource(4))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	tmpl := img.Region(8, 3, 14, 11)

	res, err := Match(img, tmpl)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if res.MaxLoc != image.Pt(3, 8) {
		t.Errorf("MaxLoc = %v, want (3,8)", res.MaxLoc)
	}
}

func TestMatchErrors(t *testing.T) {
	wide := noise(10, 50, 5)
	tall := noise(40, 20, 6)

	if _, err := Match(wide, tall); !errors.Is(err, ErrTemplateTooLarge) {
		t.Errorf("expected ErrTemplateTooLarge, got %v", err)
	}
	if _, err := Match(&imagetools.Mat{}, wide); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestMatchFlatWindow(t *testing.T) {
	flat, _ := imagetools.NewMat(10, 10, 1)
	tmpl := noise(4, 4, 7)

	res, err := Match(flat, tmpl)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if res.MaxVal != 0 || res.MinVal != 0 {
		t.Errorf("flat image should score 0 everywhere, got min=%f max=%f", res.MinVal, res.MaxVal)
	}
}

func TestPointWrappers(t *testing.T) {
	img := noise(40, 40, 8)
	tmpl := img.Region(12, 20, 20, 30)

	res, err := Match(img, tmpl)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}

	tests := []struct {
		name string
		fn   func(img, tmpl *imagetools.Mat) (image.Rectangle, error)
		want image.Rectangle
	}{
		{"max", MaxPoint, image.Rect(20, 12, 30, 20)},
		{"min", MinPoint, res.MinRect()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(img, tmpl)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if got.Dx() != 10 || got.Dy() != 8 {
				t.Errorf("box size = %dx%d, want 10x8", got.Dx(), got.Dy())
			}
		})
	}

	if _, err := MaxPoint(noise(5, 50, 9), noise(20, 10, 10)); !errors.Is(err, ErrTemplateTooLarge) {
		t.Errorf("expected ErrTemplateTooLarge, got %v", err)
	}
}

func TestSearcherAgreesWithMatch(t *testing.T) {
	img := noise(70, 90, 12)
	s, err := NewSearcher(img)
	if err != nil {
		t.Fatalf("NewSearcher failed: %v", err)
	}

	inverted := img.Region(30, 5, 42, 25)
	for i, v := range inverted.Pix {
		inverted.Pix[i] = 255 - v
	}

	tests := []struct {
		name string
		tmpl *imagetools.Mat
	}{
		{"origin", img.Region(0, 0, 9, 14)},
		{"middle", img.Region(33, 41, 50, 60)},
		{"bottom right", img.Region(60, 75, 70, 90)},
		{"inverted", inverted},
		{"unrelated", noise(11, 13, 13)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := Match(img, tt.tmpl)
			if err != nil {
				t.Fatalf("Match failed: %v", err)
			}
			got, err := s.Match(tt.tmpl)
			if err != nil {
				t.Fatalf("Searcher.Match failed: %v", err)
			}
			if got.MaxLoc != want.MaxLoc || got.MinLoc != want.MinLoc {
				t.Errorf("locations = %v/%v, want %v/%v", got.MaxLoc, got.MinLoc, want.MaxLoc, want.MinLoc)
			}
			if math.Abs(got.MaxVal-want.MaxVal) > 1e-9 || math.Abs(got.MinVal-want.MinVal) > 1e-9 {
				t.Errorf("scores = %f/%f, want %f/%f", got.MaxVal, got.MinVal, want.MaxVal, want.MinVal)
			}
			if got.Size != want.Size {
				t.Errorf("size = %v, want %v", got.Size, want.Size)
			}
		})
	}
}

func TestSearcherColorAndFallback(t *testing.T) {
	img, _ := imagetools.NewMat(30, 40, 3)
	rng := rand.New(rand.NewSource(14))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	s, err := NewSearcher(img)
	if err != nil {
		t.Fatalf("NewSearcher failed: %v", err)
	}
	res, err := s.Match(img.Region(4, 9, 16, 27))
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if res.MaxLoc != image.Pt(9, 4) {
		t.Errorf("MaxLoc = %v, want (9,4)", res.MaxLoc)
	}

	// a crop prepared as the search image is slid over a larger strip
	strip := noise(20, 90, 15)
	crop, err := NewSearcher(strip.Region(0, 40, 20, 60))
	if err != nil {
		t.Fatalf("NewSearcher failed: %v", err)
	}
	res, err = crop.Match(strip)
	if err != nil {
		t.Fatalf("fallback Match failed: %v", err)
	}
	if res.MaxLoc != image.Pt(40, 0) {
		t.Errorf("fallback MaxLoc = %v, want (40,0)", res.MaxLoc)
	}

	if _, err := crop.Match(noise(40, 10, 16)); !errors.Is(err, ErrTemplateTooLarge) {
		t.Errorf("expected ErrTemplateTooLarge, got %v", err)
	}
	if _, err := NewSearcher(&imagetools.Mat{}); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestSearcherFlatImage(t *testing.T) {
	flat, _ := imagetools.NewMat(16, 16, 1)
	s, err := NewSearcher(flat)
	if err != nil {
		t.Fatalf("NewSearcher failed: %v", err)
	}
	res, err := s.Match(noise(5, 5, 17))
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if res.MaxVal != 0 || res.MinVal != 0 {
		t.Errorf("flat image should score 0 everywhere, got min=%f max=%f", res.MinVal, res.MaxVal)
	}
}

func TestFFTMatchesDFT(t *testing.T) {
	rng := rand.New(rand.NewSource(18))
	in := make([]complex128, 16)
	for i := range in {
		in[i] = complex(rng.Float64(), rng.Float64())
	}

	got := append([]complex128(nil), in...)
	fft(got, false)
	for k := range in {
		var want complex128
		for n, v := range in {
			want += v * cmplx.Rect(1, -2*math.Pi*float64(k*n)/float64(len(in)))
		}
		if cmplx.Abs(got[k]-want) > 1e-9 {
			t.Errorf("bin %d = %v, want %v", k, got[k], want)
		}
	}

	fft(got, true)
	for i := range in {
		if cmplx.Abs(got[i]-in[i]) > 1e-12 {
			t.Errorf("round trip %d = %v, want %v", i, got[i], in[i])
		}
	}

	if nextPow2(1) != 1 || nextPow2(90) != 128 || nextPow2(128) != 128 {
		t.Error("nextPow2 rounding")
	}
}
