package layout

import (
	"fmt"
	"image"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/umadetail/internal/imagetools"
)

// Field identifies one of the fifteen status values on the detail panel.
// The name doubles as the layout key and the JSON key.
type Field string

const (
	Speed        Field = "speed"
	Stamina      Field = "stamina"
	Power        Field = "power"
	Guts         Field = "guts"
	Intelligence Field = "intelligence"

	Turf      Field = "turf"
	Dirt      Field = "dirt"
	Sprint    Field = "sprint"
	Mile      Field = "mile"
	Medium    Field = "medium"
	Long      Field = "long"
	Runner    Field = "runner"
	Leader    Field = "leader"
	Betweener Field = "betweener"
	Chaser    Field = "chaser"
)

// NumericFields are read with the recognizer.
var NumericFields = []Field{Speed, Stamina, Power, Guts, Intelligence}

// RankFields are read by matching against the rank template.
var RankFields = []Field{Turf, Dirt, Sprint, Mile, Medium, Long, Runner, Leader, Betweener, Chaser}

// StatusFields lists all fields in output order.
var StatusFields = append(append([]Field{}, NumericFields...), RankFields...)

// SkillSlotCount is the number of skill boxes visible on one panel.
const SkillSlotCount = 14

// SkillGrid describes the two-column skill list relative to its first row.
type SkillGrid struct {
	Name       Region // name box of the top-left slot, relative to the column origin
	Level      Region // unique skill level box, same origin
	NextHeight int
	LeftX      int
	RightX     int
}

// SkillSlot holds the absolute boxes of one grid slot.
type SkillSlot struct {
	Name  Region
	Level Region
}

// Tabs describes the tab strip above the panel.
type Tabs struct {
	Names  []string // default, skill, factor
	Skill  image.Point // marker pixel, X column and Y row
	Factor image.Point
	White  imagetools.ColorRange
}

// Panel holds the colors bounding the detail panel on a raw screenshot.
type Panel struct {
	Green imagetools.ColorRange
	White imagetools.ColorRange
}

// DefaultPanel matches the header green and the footer white of the
// detail screen.
var DefaultPanel = Panel{
	Green: imagetools.ColorRange{Min: imagetools.RGB{100, 180, 0}, Max: imagetools.RGB{190, 255, 70}},
	White: imagetools.ColorRange{Min: imagetools.Gray(250), Max: imagetools.Gray(255)},
}

// Layout is the resolved coordinate table. It is read-only once Parse
// returns and may be shared between pipelines.
type Layout struct {
	Aspect         float64
	Fields         map[Field]Region
	Info           Region
	InfoBackground int
	Skills         SkillGrid
	TextColor      imagetools.ColorRange
	Tabs           Tabs
	Panel          Panel

	SkillTemplate string
	RankTemplate  string
}

// Load reads and resolves a layout document. JSON documents are accepted
// as well since they are valid YAML.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return Parse(data)
}

// Parse resolves every key the extractor needs. A missing key fails with a
// *ConfigError.
func Parse(data []byte) (*Layout, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if doc == nil {
		return nil, &ConfigError{Key: "", Reason: "empty document"}
	}

	r := &resolver{doc: doc}
	l := &Layout{
		Aspect:         r.number("image", "aspect"),
		Fields:         make(map[Field]Region, len(StatusFields)),
		Info:           r.region("info"),
		InfoBackground: r.integer("info", "color", "bg"),
		Skills: SkillGrid{
			Name:       r.region("info", "skills", "ofs", "name"),
			Level:      r.region("info", "skills", "ofs", "uniquelv"),
			NextHeight: r.integer("info", "skills", "ofs", "next_height"),
			LeftX:      r.integer("info", "skills", "leftside", "left"),
			RightX:     r.integer("info", "skills", "rightside", "left"),
		},
		TextColor: imagetools.ColorRange{
			Min: r.rgb("string", "color", "min"),
			Max: r.rgb("string", "color", "max"),
		},
		Tabs: Tabs{
			Names: r.strings("tabs", "names"),
			White: imagetools.ColorRange{
				Min: r.rgb("tabs", "selected", "color", "min_white"),
				Max: r.rgb("tabs", "selected", "color", "max_white"),
			},
		},
		Panel:         DefaultPanel,
		SkillTemplate: r.str("template_matching", "image_path", "skill"),
		RankTemplate:  r.str("template_matching", "image_path", "rank"),
	}
	for _, f := range StatusFields {
		l.Fields[f] = r.region(string(f))
	}

	// tab markers sample row "left", column "top"
	top, left := r.point("tabs", "selected", "skill")
	l.Tabs.Skill = image.Pt(top, left)
	top, left = r.point("tabs", "selected", "factor")
	l.Tabs.Factor = image.Pt(top, left)

	if r.has("panel") {
		l.Panel = Panel{
			Green: imagetools.ColorRange{Min: r.rgb("panel", "green", "min"), Max: r.rgb("panel", "green", "max")},
			White: imagetools.ColorRange{Min: r.rgb("panel", "white", "min"), Max: r.rgb("panel", "white", "max")},
		}
	}

	if r.err != nil {
		return nil, r.err
	}
	if l.Aspect <= 0 {
		return nil, &ConfigError{Key: "image.aspect", Reason: "must be positive"}
	}
	if len(l.Tabs.Names) < 3 {
		return nil, &ConfigError{Key: "tabs.names", Reason: "expected three tab names"}
	}
	return l, nil
}

// Field returns the region of a status field.
func (l *Layout) Field(f Field) (Region, error) {
	r, ok := l.Fields[f]
	if !ok {
		return Region{}, &ConfigError{Key: string(f)}
	}
	return r, nil
}

// SkillDetectX is the column scanned to find the first skill row.
func (l *Layout) SkillDetectX() int {
	return l.Skills.LeftX + l.Skills.Name.Left
}

// SkillSlots returns the boxes of the fourteen grid slots for a list
// starting at row startY. Even slots are in the left column, odd slots in
// the right one.
func (l *Layout) SkillSlots(startY int) []SkillSlot {
	slots := make([]SkillSlot, SkillSlotCount)
	for i := range slots {
		x := l.Skills.LeftX
		if i%2 == 1 {
			x = l.Skills.RightX
		}
		y := startY + l.Skills.NextHeight*(i/2)
		slots[i] = SkillSlot{
			Name:  l.Skills.Name.Offset(y, x),
			Level: l.Skills.Level.Offset(y, x),
		}
	}
	return slots
}
