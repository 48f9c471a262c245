package layout

import (
	"fmt"
	"strings"

	"github.com/ivlev/umadetail/internal/imagetools"
)

// resolver walks a decoded document and remembers the first lookup
// failure, so Parse can read every key and check the error once.
type resolver struct {
	doc map[string]any
	err error
}

func (r *resolver) fail(path []string, reason string) {
	if r.err == nil {
		r.err = &ConfigError{Key: strings.Join(path, "."), Reason: reason}
	}
}

func (r *resolver) has(path ...string) bool {
	_, ok := lookup(r.doc, path)
	return ok
}

func (r *resolver) value(path ...string) any {
	v, ok := lookup(r.doc, path)
	if !ok {
		r.fail(path, "")
		return nil
	}
	return v
}

func (r *resolver) number(path ...string) float64 {
	v := r.value(path...)
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case []any:
		// aspect is stored as a one-element list in some documents
		if len(n) > 0 {
			if f, ok := toFloat(n[0]); ok {
				return f
			}
		}
	}
	r.fail(path, fmt.Sprintf("expected a number, got %T", v))
	return 0
}

func (r *resolver) integer(path ...string) int {
	return int(r.number(path...))
}

func (r *resolver) str(path ...string) string {
	v := r.value(path...)
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(path, fmt.Sprintf("expected a string, got %T", v))
	}
	return s
}

func (r *resolver) strings(path ...string) []string {
	v := r.value(path...)
	if v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		r.fail(path, fmt.Sprintf("expected a list, got %T", v))
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, fmt.Sprint(item))
	}
	return out
}

// rgb accepts either a single gray level or an [R, G, B] list.
func (r *resolver) rgb(path ...string) imagetools.RGB {
	v := r.value(path...)
	if v == nil {
		return imagetools.RGB{}
	}
	if f, ok := toFloat(v); ok {
		return imagetools.Gray(int(f))
	}
	list, ok := v.([]any)
	if !ok || len(list) != 3 {
		r.fail(path, "expected a gray level or an [R, G, B] list")
		return imagetools.RGB{}
	}
	var c imagetools.RGB
	for i, item := range list {
		f, ok := toFloat(item)
		if !ok {
			r.fail(path, fmt.Sprintf("channel %d is not a number", i))
			return imagetools.RGB{}
		}
		c[i] = int(f)
	}
	return c
}

func (r *resolver) region(path ...string) Region {
	at := func(k string) int {
		return r.integer(append(append([]string{}, path...), k)...)
	}
	return NewRegion(at("top"), at("left"), at("bottom"), at("right"))
}

func (r *resolver) point(path ...string) (top, left int) {
	at := func(k string) int {
		return r.integer(append(append([]string{}, path...), k)...)
	}
	return at("top"), at("left")
}

func lookup(doc map[string]any, path []string) (any, bool) {
	var cur any = doc
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
