package ast

import (
	"sort"
	"strings"
)

// Visitor is called for every node reached by Walk. Returning false skips
// the children of that node.
type Visitor func(n Node) bool

// Walk visits the blocks of doc in document order, depth first.
func Walk(doc *Document, visit Visitor) {
	if doc == nil {
		return
	}
	for _, b := range doc.Blocks {
		WalkBlock(b, visit)
	}
}

// WalkBlock visits b and its descendants.
func WalkBlock(b Block, visit Visitor) {
	if !visit(b) {
		return
	}
	switch v := b.(type) {
	case Heading:
		walkInlines(v.Body, visit)
	case Quote:
		walkInlines(v.Body, visit)
	case Paragraph:
		walkInlines(v.Body, visit)
	case List:
		for _, item := range v.Items {
			if visit(item) {
				walkInlines(item.Body, visit)
			}
		}
	case Custom:
		// map order is random; visit inline fields in key order
		keys := make([]string, 0, len(v.Fields))
		for k := range v.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if in, ok := v.Fields[k].([]Inline); ok {
				walkInlines(in, visit)
			}
		}
	}
}

func walkInlines(in []Inline, visit Visitor) {
	for _, n := range in {
		if !visit(n) {
			continue
		}
		if l, ok := n.(Link); ok {
			for _, tb := range l.Body {
				visit(tb)
			}
		}
	}
}

// Links returns every link in doc in document order.
func Links(doc *Document) []Link {
	var out []Link
	Walk(doc, func(n Node) bool {
		if l, ok := n.(Link); ok {
			out = append(out, l)
			return false
		}
		return true
	})
	return out
}

// PlainText concatenates the text of in, dropping styles and link URLs.
func PlainText(in []Inline) string {
	var sb strings.Builder
	for _, n := range in {
		switch v := n.(type) {
		case TextBody:
			sb.WriteString(v.Value)
		case Link:
			sb.WriteString(LinkText(v))
		}
	}
	return sb.String()
}

// LinkText concatenates the label runs of l.
func LinkText(l Link) string {
	var sb strings.Builder
	for _, tb := range l.Body {
		sb.WriteString(tb.Value)
	}
	return sb.String()
}

// CountByKind tallies the blocks of doc by kind.
func CountByKind(doc *Document) map[Kind]int {
	counts := make(map[Kind]int)
	if doc == nil {
		return counts
	}
	for _, b := range doc.Blocks {
		counts[b.Kind()]++
	}
	return counts
}
