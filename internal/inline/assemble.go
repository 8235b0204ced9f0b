package inline

import "git.home.luguber.info/inful/blockmark/internal/ast"

// Parse converts block text into its final inline sequence.
func Parse(s string) []ast.Inline {
	var out []ast.Inline
	for _, f := range SplitLinks(s) {
		if f.Link {
			out = append(out, ParseLink(f.Label, f.URL))
			continue
		}
		for _, tb := range Tokenize(f.Text) {
			out = append(out, tb)
		}
	}
	return Merge(out)
}

// Merge joins adjacent text runs of equal style. Runs are never merged
// across a link, and each link's label is merged on its own. Merge is
// idempotent and does not modify in.
func Merge(in []ast.Inline) []ast.Inline {
	if len(in) == 0 {
		return in
	}
	out := make([]ast.Inline, 0, len(in))
	for _, n := range in {
		switch v := n.(type) {
		case ast.TextBody:
			if last := len(out) - 1; last >= 0 {
				if prev, ok := out[last].(ast.TextBody); ok && prev.Style == v.Style {
					out[last] = ast.Text(v.Style, prev.Value+v.Value)
					continue
				}
			}
			out = append(out, v)
		case ast.Link:
			out = append(out, ast.Link{URL: v.URL, Body: MergeText(v.Body)})
		default:
			out = append(out, n)
		}
	}
	return out
}

// MergeText is Merge for a sequence that holds only text runs.
func MergeText(in []ast.TextBody) []ast.TextBody {
	if len(in) == 0 {
		return in
	}
	out := make([]ast.TextBody, 0, len(in))
	for _, tb := range in {
		if last := len(out) - 1; last >= 0 && out[last].Style == tb.Style {
			out[last].Value += tb.Value
			continue
		}
		out = append(out, tb)
	}
	return out
}
