package layout

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SkillTable maps a row of the skill template image to a skill name.
type SkillTable struct {
	Size  float64 // pixel height of one entry in the template image
	Names map[int]string
}

// LoadSkills reads the skill-name table.
func LoadSkills(path string) (*SkillTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skill table: %w", err)
	}
	return ParseSkills(data)
}

// ParseSkills decodes a table of the form {size: N, "0": name, "1": name, ...}.
func ParseSkills(data []byte) (*SkillTable, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	size, ok := toFloat(doc["size"])
	if !ok || size <= 0 {
		return nil, &ConfigError{Key: "size", Reason: "skill table needs a positive entry height"}
	}

	t := &SkillTable{Size: size, Names: make(map[int]string, len(doc))}
	for k, v := range doc {
		if k == "size" || k == "$comment" {
			continue
		}
		key, err := strconv.Atoi(k)
		if err != nil {
			return nil, &ConfigError{Key: k, Reason: "skill keys must be integers"}
		}
		name, ok := v.(string)
		if !ok {
			return nil, &ConfigError{Key: k, Reason: "skill name must be a string"}
		}
		t.Names[key] = name
	}
	return t, nil
}

// Key converts the vertical midpoint of a match in the template image to a
// table key.
func (t *SkillTable) Key(midY float64) int {
	return int(math.Floor((midY - 2) / t.Size))
}

// Name looks up the skill for a key.
func (t *SkillTable) Name(key int) (string, bool) {
	name, ok := t.Names[key]
	return name, ok
}
