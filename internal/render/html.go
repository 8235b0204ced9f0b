package render

import (
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
)

// HTML writes the blocks as an HTML fragment. With Standalone set it wraps
// them in a full page whose <title> comes from the "title" frontmatter key
// and whose <meta> tags carry the remaining keys.
type HTML struct {
	Standalone bool
}

func (r HTML) Render(w io.Writer, doc *ast.Document) error {
	if doc == nil {
		return nilDocument()
	}
	nodes := make([]*html.Node, 0, len(doc.Blocks))
	for i, b := range doc.Blocks {
		n, err := htmlBlock(b)
		if err != nil {
			return errors.WrapError(err, errors.CategoryValidation, "render html").
				WithContext("block", i).
				Build()
		}
		nodes = append(nodes, n)
	}

	if r.Standalone {
		return renderNodes(w, []*html.Node{{Type: html.DoctypeNode, Data: "html"}, page(doc.Frontmatter, nodes)})
	}
	return renderNodes(w, nodes)
}

func renderNodes(w io.Writer, nodes []*html.Node) error {
	for _, n := range nodes {
		if err := html.Render(w, n); err != nil {
			return errors.WrapError(err, errors.CategoryRuntime, "write html").Build()
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return errors.WrapError(err, errors.CategoryRuntime, "write html").Build()
		}
	}
	return nil
}

func page(fm map[string]string, body []*html.Node) *html.Node {
	head := element(atom.Head)
	head.AppendChild(withAttr(element(atom.Meta), attr("charset", "utf-8")))
	if title, ok := fm["title"]; ok {
		head.AppendChild(element(atom.Title, text(title)))
	}
	for _, k := range slices.Sorted(maps.Keys(fm)) {
		if k == "title" {
			continue
		}
		head.AppendChild(withAttr(element(atom.Meta), attr("name", k), attr("content", fm[k])))
	}

	bodyEl := element(atom.Body)
	for _, n := range body {
		bodyEl.AppendChild(n)
	}
	root := element(atom.Html)
	root.AppendChild(head)
	root.AppendChild(bodyEl)
	return root
}

func htmlBlock(b ast.Block) (*html.Node, error) {
	switch v := b.(type) {
	case ast.Heading:
		if v.Level < 1 || v.Level > 6 {
			return nil, errors.ValidationError("heading level out of range").
				WithContext("level", v.Level).
				Build()
		}
		return element(headingAtoms[v.Level-1], htmlInlines(v.Body)...), nil
	case ast.Paragraph:
		return element(atom.P, htmlInlines(v.Body)...), nil
	case ast.Quote:
		return element(atom.Blockquote, element(atom.P, withBreaks(htmlInlines(v.Body))...)), nil
	case ast.List:
		tag := atom.Ul
		if v.Ordered {
			tag = atom.Ol
		}
		list := element(tag)
		for _, item := range v.Items {
			list.AppendChild(element(atom.Li, htmlInlines(item.Body)...))
		}
		return list, nil
	case ast.Image:
		fig := element(atom.Figure, withAttr(element(atom.Img), append(urlAttr("src", v.URL), attr("alt", v.AltText))...))
		if v.Caption != "" {
			fig.AppendChild(element(atom.Figcaption, text(v.Caption)))
		}
		return fig, nil
	case ast.Code:
		code := element(atom.Code, text(v.Body))
		if v.Lang != "" {
			withAttr(code, attr("class", "language-"+v.Lang))
		}
		return element(atom.Pre, code), nil
	case ast.ThematicBreak:
		return element(atom.Hr), nil
	case ast.Custom:
		return htmlCustom(v), nil
	default:
		return nil, errors.ValidationError("unsupported block").
			WithContext("kind", b.Kind().String()).
			Build()
	}
}

var headingAtoms = [6]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// htmlCustom renders scalar fields as data attributes and inline fields as
// child elements tagged with data-field, both in key order.
func htmlCustom(c ast.Custom) *html.Node {
	div := withAttr(element(atom.Div), attr("class", "custom custom-"+c.CustomType))
	for _, k := range slices.Sorted(maps.Keys(c.Fields)) {
		switch v := c.Fields[k].(type) {
		case []ast.Inline:
			div.AppendChild(withAttr(element(atom.Div, withBreaks(htmlInlines(v))...), attr("data-field", k)))
		case string:
			div.Attr = append(div.Attr, attr("data-"+k, v))
		case bool:
			div.Attr = append(div.Attr, attr("data-"+k, strconv.FormatBool(v)))
		case int:
			div.Attr = append(div.Attr, attr("data-"+k, strconv.Itoa(v)))
		case float64:
			div.Attr = append(div.Attr, attr("data-"+k, strconv.FormatFloat(v, 'g', -1, 64)))
		}
	}
	return div
}

func htmlInlines(in []ast.Inline) []*html.Node {
	out := make([]*html.Node, 0, len(in))
	for _, i := range in {
		switch v := i.(type) {
		case ast.TextBody:
			out = append(out, htmlText(v))
		case ast.Link:
			a := withAttr(element(atom.A), urlAttr("href", v.URL)...)
			for _, tb := range v.Body {
				a.AppendChild(htmlText(tb))
			}
			out = append(out, a)
		}
	}
	return out
}

func htmlText(tb ast.TextBody) *html.Node {
	switch tb.Style {
	case ast.StyleStrong:
		return element(atom.Strong, text(tb.Value))
	case ast.StyleItalic:
		return element(atom.Em, text(tb.Value))
	case ast.StyleCode:
		return element(atom.Code, text(tb.Value))
	default:
		return text(tb.Value)
	}
}

// withBreaks splits top-level text nodes on newlines and joins the pieces
// with <br> elements.
func withBreaks(nodes []*html.Node) []*html.Node {
	out := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != html.TextNode || !strings.Contains(n.Data, "\n") {
			out = append(out, n)
			continue
		}
		for j, part := range strings.Split(n.Data, "\n") {
			if j > 0 {
				out = append(out, element(atom.Br))
			}
			if part != "" {
				out = append(out, text(part))
			}
		}
	}
	return out
}

func element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func withAttr(n *html.Node, attrs ...html.Attribute) *html.Node {
	n.Attr = append(n.Attr, attrs...)
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// urlAttr drops script-capable URLs (javascript:, vbscript:, non-image
// data:) the same way goldmark's HTML renderer does.
func urlAttr(key, url string) []html.Attribute {
	if gmhtml.IsDangerousURL([]byte(url)) {
		return nil
	}
	return []html.Attribute{attr(key, url)}
}
