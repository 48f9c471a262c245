package status

import (
	"bytes"
	"encoding/json"
)

// SkillRecord maps skill names to levels, keeping the order in which the
// skills were found on the panel.
type SkillRecord struct {
	names  []string
	levels map[string]string
}

// NewSkillRecord returns an empty record.
func NewSkillRecord() *SkillRecord {
	return &SkillRecord{levels: make(map[string]string)}
}

// Set stores a level for name. A name seen before keeps its position and
// takes the new level.
func (r *SkillRecord) Set(name, level string) {
	if _, ok := r.levels[name]; !ok {
		r.names = append(r.names, name)
	}
	r.levels[name] = level
}

// Level returns the level stored for name.
func (r *SkillRecord) Level(name string) (string, bool) {
	level, ok := r.levels[name]
	return level, ok
}

// Names lists the skills in panel order.
func (r *SkillRecord) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *SkillRecord) Len() int {
	return len(r.names)
}

// MarshalJSON writes the record as an object in panel order.
func (r *SkillRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if r != nil {
		for i, name := range r.names {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writePair(&buf, name, r.levels[name]); err != nil {
				return nil, err
			}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writePair(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
