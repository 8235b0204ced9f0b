package frontmatter

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// ParseYAMLFlat decodes YAML frontmatter into the flat string mapping of a
// document. Nested mappings become dotted keys ("author.name"), sequences of
// scalars are joined with ", ", and null values become "".
func ParseYAMLFlat(frontmatter []byte) (map[string]string, error) {
	fields, err := ParseYAML(frontmatter)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(fields))
	flatten("", fields, out)
	return out, nil
}

func flatten(prefix string, fields map[string]any, out map[string]string) {
	for k, v := range fields {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch vv := v.(type) {
		case map[string]any:
			flatten(key, vv, out)
		case []any:
			parts := make([]string, 0, len(vv))
			for _, item := range vv {
				parts = append(parts, scalarString(item))
			}
			out[key] = strings.Join(parts, ", ")
		default:
			out[key] = scalarString(vv)
		}
	}
}

func scalarString(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case bool:
		return strconv.FormatBool(vv)
	case int:
		return strconv.Itoa(vv)
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	default:
		return fmt.Sprint(vv)
	}
}

// SerializeYAML renders a flat mapping as YAML with sorted keys. Values are
// always emitted as strings.
func SerializeYAML(fields map[string]string) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fields[k]},
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
