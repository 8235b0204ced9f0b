package frontmatter

import (
	"sort"
	"strings"
)

// ParseLines reads "key: value" lines. Lines without a key, or without a
// colon followed by whitespace or end of line, are skipped. Values are
// trimmed and lose one pair of matching surrounding quotes. A repeated key
// keeps its last value.
func ParseLines(head string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(head, "\n") {
		key, value, ok := cutKey(strings.TrimRight(line, "\r"))
		if !ok {
			continue
		}
		out[key] = unquote(value)
	}
	return out
}

func cutKey(line string) (key, value string, ok bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != ':' {
			continue
		}
		if i+1 < len(line) && line[i+1] != ' ' && line[i+1] != '\t' {
			continue
		}
		key = strings.TrimSpace(line[:i])
		if key == "" {
			return "", "", false
		}
		return key, strings.TrimSpace(line[i+1:]), true
	}
	return "", "", false
}

func unquote(v string) string {
	if len(v) >= 2 {
		if q := v[0]; (q == '"' || q == '\'') && v[len(v)-1] == q {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// FormatLines renders fields as "key: value" lines in key order. Values
// that ParseLines would otherwise alter are quoted.
func FormatLines(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		v := fields[k]
		sb.WriteString(k)
		sb.WriteString(": ")
		if needsQuotes(v) {
			sb.WriteString(`"` + v + `"`)
		} else {
			sb.WriteString(v)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func needsQuotes(v string) bool {
	if v == "" || v != strings.TrimSpace(v) {
		return true
	}
	return unquote(v) != v
}
