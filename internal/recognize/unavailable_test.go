//go:build !ocr

package recognize

import (
	"errors"
	"testing"
)

func TestTesseractWithoutTag(t *testing.T) {
	for _, variant := range []string{"", "tesseract"} {
		if _, err := New(variant); !errors.Is(err, ErrRecognitionUnavailable) {
			t.Errorf("New(%q): expected ErrRecognitionUnavailable, got %v", variant, err)
		}
	}
}
