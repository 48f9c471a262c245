package recognize

import (
	"errors"
	"fmt"
	"image"
)

// ErrRecognitionUnavailable means no recognition backend can be used. It is
// fatal for an extraction run.
var ErrRecognitionUnavailable = errors.New("recognition backend unavailable")

// Recognizer turns a cropped glyph region into text.
type Recognizer interface {
	RecognizeNumber(img image.Image) (string, error)
	RecognizeText(img image.Image) (string, error)
}

// New creates a recognizer based on the specified variant
func New(variant string) (Recognizer, error) {
	switch variant {
	case "tesseract", "":
		return newTesseract()
	default:
		return nil, fmt.Errorf("unknown recognizer variant: %s", variant)
	}
}
