package inline

import (
	"regexp"

	"git.home.luguber.info/inful/blockmark/internal/ast"
)

// linkPattern matches the shortest non-empty label followed by the shortest
// non-empty destination. Neither part may span a newline.
var linkPattern = regexp.MustCompile(`\[(.+?)\]\((.+?)\)`)

// Fragment is one piece of SplitLinks output: either untokenized text or a
// link whose label still needs tokenizing.
type Fragment struct {
	Text  string
	Label string
	URL   string
	Link  bool
}

// SplitLinks cuts s into text and link fragments, left to right. Text
// fragments are never empty. Bracket sequences that do not form a complete
// link, such as "[x]()" or "[](y)", stay in the surrounding text.
func SplitLinks(s string) []Fragment {
	var out []Fragment
	for len(s) > 0 {
		loc := linkPattern.FindStringSubmatchIndex(s)
		if loc == nil {
			out = append(out, Fragment{Text: s})
			break
		}
		if loc[0] > 0 {
			out = append(out, Fragment{Text: s[:loc[0]]})
		}
		out = append(out, Fragment{
			Link:  true,
			Label: s[loc[2]:loc[3]],
			URL:   s[loc[4]:loc[5]],
		})
		s = s[loc[1]:]
	}
	return out
}

// ParseLink builds a link node from a label and destination. The label is
// tokenized and merged; the destination is kept verbatim.
func ParseLink(label, url string) ast.Link {
	return ast.Link{URL: url, Body: MergeText(Tokenize(label))}
}
