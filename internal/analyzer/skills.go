package analyzer

import (
	"image"
	"math"
	"strings"

	"github.com/ivlev/umadetail/internal/imagetools"
	"github.com/ivlev/umadetail/internal/status"
)

const (
	Circle       = "◯"
	DoubleCircle = "◎"

	skillLuminance = 60  // lighter pixels are dropped before matching
	skillThreshold = 0.2 // minimum correlation for a slot to count
	skillMargin    = 2   // border width under the list background
	circleWidth    = 14
	circleMinHits  = 2
)

// Skills reads the skill grid. Slots without a confident match are left
// out; only the first slot carries a level.
func (e *Extractor) Skills(m *imagetools.Mat) (*status.SkillRecord, error) {
	if e.skillStrip == nil {
		return nil, ErrNoTemplates
	}

	record := status.NewSkillRecord()
	start, ok := e.skillStart(m)
	if !ok {
		e.log.Warn().Msg("skill list not found")
		return record, nil
	}

	for i, slot := range e.layout.SkillSlots(start) {
		n := slot.Name
		crop := m.Region(n.Top, n.Left, n.Bottom, n.Right)
		if crop.Empty() {
			continue
		}
		target := imagetools.ExceptLightColor(imagetools.ExceptOutsideColor(crop, e.layout.TextColor), skillLuminance)

		res, err := e.skillStrip.Match(target)
		if err != nil {
			e.log.Debug().Int("slot", i).Err(err).Msg("skill slot skipped")
			continue
		}
		if res.MaxVal < skillThreshold || res.MaxLoc == (image.Point{}) {
			continue
		}

		midY := float64(2*res.MaxLoc.Y+crop.Rows) / 2
		name, ok := e.skills.Name(e.skills.Key(midY))
		if !ok {
			e.log.Warn().Int("slot", i).Float64("mid", midY).Msg("no skill name for match position")
			continue
		}
		name = e.resolveCircle(name, target)

		level := ""
		if i == 0 {
			l := slot.Level
			text, err := e.recognizeNumber(m.Region(l.Top, l.Left, l.Bottom, l.Right))
			if err != nil {
				return nil, err
			}
			level = ParseLevel(text)
		}
		record.Set(name, level)
	}
	return record, nil
}

// skillStart finds the first row of the skill list: the list background is
// searched below the info anchor, then the border under it.
func (e *Extractor) skillStart(m *imagetools.Mat) (int, bool) {
	x := e.layout.SkillDetectX()
	bg := imagetools.Gray(e.layout.InfoBackground)

	found := imagetools.SearchColor(m, imagetools.South, image.Pt(x, e.layout.Info.Top), bg, bg, false)
	if found == imagetools.NotFound {
		return 0, false
	}
	border := imagetools.SearchColor(m, imagetools.South, image.Pt(x, found), bg, bg, true)
	if border == imagetools.NotFound {
		return 0, false
	}
	return border + skillMargin, true
}

func (e *Extractor) resolveCircle(name string, target *imagetools.Mat) string {
	base, ok := strings.CutSuffix(name, Circle)
	if !ok {
		base, ok = strings.CutSuffix(name, DoubleCircle)
	}
	if !ok {
		return name
	}
	if IsDoubleCircle(target, e.layout.TextColor) {
		return base + DoubleCircle
	}
	return base + Circle
}

// IsDoubleCircle tells the two circle markers apart by counting text
// colored pixels on the middle row of the rightmost glyph.
func IsDoubleCircle(m *imagetools.Mat, text imagetools.ColorRange) bool {
	y := int(math.RoundToEven(float64(m.Rows) / 2))
	left := m.Cols - circleWidth
	if left < 0 {
		// narrow crops: a negative start counts back from the right edge
		left = max(0, m.Cols+left)
	}
	row := m.Region(y, left, y+1, m.Cols)
	return imagetools.CountInRange(row, text) > circleMinHits
}
