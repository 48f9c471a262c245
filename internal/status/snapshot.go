package status

import (
	"bytes"
	"fmt"

	"github.com/ivlev/umadetail/internal/imagetools"
	"github.com/ivlev/umadetail/internal/layout"
)

// Extractor reads single fields from a normalized panel.
type Extractor interface {
	Status(m *imagetools.Mat, f layout.Field) (int, error)
	Suitability(m *imagetools.Mat, f layout.Field) (string, error)
	Skills(m *imagetools.Mat) (*SkillRecord, error)
	SelectedTab(m *imagetools.Mat) string
}

// Snapshot is everything read from one detail panel.
type Snapshot struct {
	Numbers map[layout.Field]int
	Ranks   map[layout.Field]string
	Skills  *SkillRecord
	Tab     string
}

// Build reads the selected tab, the fifteen status fields and the skill
// grid from a normalized panel.
func Build(ex Extractor, m *imagetools.Mat) (*Snapshot, error) {
	s := &Snapshot{
		Numbers: make(map[layout.Field]int, len(layout.NumericFields)),
		Ranks:   make(map[layout.Field]string, len(layout.RankFields)),
		Tab:     ex.SelectedTab(m),
	}

	for _, f := range layout.NumericFields {
		v, err := ex.Status(m, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		s.Numbers[f] = v
	}
	for _, f := range layout.RankFields {
		v, err := ex.Suitability(m, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		s.Ranks[f] = v
	}

	skills, err := ex.Skills(m)
	if err != nil {
		return nil, fmt.Errorf("read skills: %w", err)
	}
	s.Skills = skills
	return s, nil
}

// MarshalJSON writes the fifteen fields in panel order followed by the
// skills. The tab is not part of the output.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, f := range layout.NumericFields {
		if err := writePair(&buf, string(f), s.Numbers[f]); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}
	for _, f := range layout.RankFields {
		rank := s.Ranks[f]
		if rank == "" {
			rank = "G"
		}
		if err := writePair(&buf, string(f), rank); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}

	skills, err := s.Skills.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"skills":`)
	buf.Write(skills)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSON returns the snapshot as a JSON object string.
func (s *Snapshot) JSON() (string, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
