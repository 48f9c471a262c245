//go:build !ocr

package recognize

import "fmt"

func newTesseract() (Recognizer, error) {
	return nil, fmt.Errorf("%w: built without the ocr tag", ErrRecognitionUnavailable)
}
