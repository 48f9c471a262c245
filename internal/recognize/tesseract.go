//go:build ocr

package recognize

import (
	"bytes"
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text with a local tesseract installation.
type Tesseract struct {
	NumberLanguage string
	TextLanguage   string
}

func newTesseract() (Recognizer, error) {
	langs, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognitionUnavailable, err)
	}
	if !slices.Contains(langs, "eng") {
		return nil, fmt.Errorf("%w: tesseract has no eng data", ErrRecognitionUnavailable)
	}
	return &Tesseract{NumberLanguage: "eng", TextLanguage: "jpn"}, nil
}

func (t *Tesseract) RecognizeNumber(img image.Image) (string, error) {
	return t.read(img, t.NumberLanguage)
}

func (t *Tesseract) RecognizeText(img image.Image) (string, error) {
	return t.read(img, t.TextLanguage)
}

func (t *Tesseract) read(img image.Image, lang string) (string, error) {
	var b bytes.Buffer
	if err := imaging.Encode(&b, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode crop: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(lang); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecognitionUnavailable, err)
	}
	if err := client.SetImageFromBytes(b.Bytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(text), nil
}
