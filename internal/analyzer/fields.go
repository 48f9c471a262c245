package analyzer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/ivlev/umadetail/internal/imagetools"
	"github.com/ivlev/umadetail/internal/layout"
	"github.com/ivlev/umadetail/internal/matcher"
	"github.com/ivlev/umadetail/internal/recognize"
)

// Ranks lists the suitability letters from best to worst.
var Ranks = []string{"S", "A", "B", "C", "D", "E", "F", "G"}

const (
	rankHeight = 100 // rank crops are compared at this height
	rankOffset = -10 // bins start this far left of each letter
)

// Status reads a numeric field. Text that is not a plain decimal number
// yields 0.
func (e *Extractor) Status(m *imagetools.Mat, f layout.Field) (int, error) {
	r, err := e.layout.Field(f)
	if err != nil {
		return 0, err
	}
	text, err := e.recognizeNumber(m.Region(r.Top, r.Left, r.Bottom, r.Right))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", f, err)
	}
	if !isDecimal(text) {
		e.log.Debug().Str("field", string(f)).Str("text", text).Msg("not a number")
		return 0, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, nil
	}
	return v, nil
}

// Suitability reads a rank field by locating its crop on the rank strip.
func (e *Extractor) Suitability(m *imagetools.Mat, f layout.Field) (string, error) {
	if e.rankTemplate == nil {
		return "", ErrNoTemplates
	}
	r, err := e.layout.Field(f)
	if err != nil {
		return "", err
	}

	crop := m.Region(r.Top, r.Left, r.Bottom, r.Right)
	if crop.Empty() {
		return "G", nil
	}
	crop, err = imagetools.ResizeByAspect(crop, rankHeight)
	if err != nil {
		return "", err
	}

	res, err := matcher.Match(crop, e.rankTemplate)
	if errors.Is(err, matcher.ErrTemplateTooLarge) {
		e.log.Warn().Str("field", string(f)).Err(err).Msg("rank crop does not fit the rank strip")
		return "G", nil
	}
	if err != nil {
		return "", err
	}
	return RankForPosition(res.MaxLoc.X), nil
}

// RankForPosition maps the horizontal match position on the rank strip to a
// letter. Positions outside every bin map to the worst rank.
func RankForPosition(x int) string {
	for i, rank := range Ranks {
		start := rankOffset + rankHeight*i
		end := start + rankHeight
		if start < x && x < end {
			return rank
		}
	}
	return Ranks[len(Ranks)-1]
}

// ParseLevel turns the recognized text of the level box into "lvN" when it
// ends in a digit. Anything else is kept as recognized.
func ParseLevel(text string) string {
	r, _ := utf8.DecodeLastRuneInString(text)
	if text == "" || !unicode.IsDigit(r) {
		return text
	}
	return "lv" + string(r)
}

func (e *Extractor) recognizeNumber(crop *imagetools.Mat) (string, error) {
	if e.recognizer == nil {
		return "", recognize.ErrRecognitionUnavailable
	}
	img, err := crop.Image()
	if err != nil {
		return "", err
	}
	return e.recognizer.RecognizeNumber(img)
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
