package analyzer

import (
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/ivlev/umadetail/internal/imagetools"
	"github.com/ivlev/umadetail/internal/layout"
	"github.com/ivlev/umadetail/internal/matcher"
	"github.com/ivlev/umadetail/internal/recognize"
	"github.com/ivlev/umadetail/internal/status"
)

// ErrPanelNotFound is returned when a screenshot has no detail panel
// bounded by the header green and the footer white.
var ErrPanelNotFound = errors.New("detail panel not found")

// ErrNoTemplates is returned when matching is attempted before the
// template images were loaded.
var ErrNoTemplates = errors.New("template images not loaded")

// Extractor reads the detail panel of one screenshot at a time. It holds
// no per-image state and may be shared between goroutines as long as the
// recognizer can.
type Extractor struct {
	layout     *layout.Layout
	skills     *layout.SkillTable
	recognizer recognize.Recognizer
	log        zerolog.Logger

	skillStrip   *matcher.Searcher
	rankTemplate *imagetools.Mat
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for per-field diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) {
		e.log = l
	}
}

// WithTemplates injects already decoded template images. An empty skill
// template leaves the extractor without templates.
func WithTemplates(skill, rank *imagetools.Mat) Option {
	return func(e *Extractor) {
		if err := e.setTemplates(skill, rank); err != nil {
			e.log.Warn().Err(err).Msg("templates ignored")
		}
	}
}

// New creates an extractor for the given layout and skill table.
func New(l *layout.Layout, skills *layout.SkillTable, rec recognize.Recognizer, opts ...Option) *Extractor {
	e := &Extractor{
		layout:     l,
		skills:     skills,
		recognizer: rec,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadTemplates reads the skill and rank template images named by the
// layout.
func (e *Extractor) LoadTemplates() error {
	skill, err := openMat(e.layout.SkillTemplate)
	if err != nil {
		return fmt.Errorf("load skill template: %w", err)
	}
	rank, err := openMat(e.layout.RankTemplate)
	if err != nil {
		return fmt.Errorf("load rank template: %w", err)
	}
	return e.setTemplates(skill, rank)
}

func (e *Extractor) setTemplates(skill, rank *imagetools.Mat) error {
	strip, err := matcher.NewSearcher(skill)
	if err != nil {
		return fmt.Errorf("prepare skill template: %w", err)
	}
	e.skillStrip, e.rankTemplate = strip, rank
	return nil
}

// Snapshot reads every field of a normalized panel.
func (e *Extractor) Snapshot(m *imagetools.Mat) (*status.Snapshot, error) {
	return status.Build(e, m)
}

// ReadSnapshot loads a screenshot file and reads every field of its panel.
func (e *Extractor) ReadSnapshot(path string) (*status.Snapshot, error) {
	m, err := e.Read(path)
	if err != nil {
		return nil, err
	}
	return e.Snapshot(m)
}

func openMat(path string) (*imagetools.Mat, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	return imagetools.FromImage(img), nil
}
