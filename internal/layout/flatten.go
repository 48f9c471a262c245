package layout

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one leaf of a flattened document.
type Entry struct {
	Route string // e.g. ['info']['skills']['ofs']['next_height']
	Value string
}

// Flatten lists the leaves of a YAML or JSON document in document order.
// Keys named "$comment" are skipped. Every call builds a new slice.
func Flatten(data []byte) ([]Entry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, nil
	}

	var entries []Entry
	flattenNode(root.Content[0], "", &entries)
	return entries, nil
}

func flattenNode(n *yaml.Node, route string, out *[]Entry) {
	if n.Kind != yaml.MappingNode {
		*out = append(*out, Entry{Route: route, Value: render(n)})
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		if key == "$comment" {
			continue
		}
		flattenNode(val, fmt.Sprintf("%s['%s']", route, key), out)
	}
}

func render(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		parts := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			parts = append(parts, render(c))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case yaml.MappingNode:
		var entries []Entry
		flattenNode(n, "", &entries)
		parts := make([]string, 0, len(entries))
		for _, e := range entries {
			parts = append(parts, e.Route+": "+e.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case yaml.AliasNode:
		return render(n.Alias)
	}
	if n.Tag == "!!str" {
		return fmt.Sprintf("%q", n.Value)
	}
	return n.Value
}

// WriteFlat writes entries as "route = value" lines.
func WriteFlat(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s = %s\n", e.Route, e.Value); err != nil {
			return err
		}
	}
	return nil
}
