// Package ast defines the document tree produced by the blockmark parser.
//
// Blocks and inline nodes are closed sum types: the Block and Inline
// interfaces carry unexported marker methods, so only the variants declared
// here (plus Custom, which carries caller-defined payloads) can satisfy them.
// All node types are plain values; a parsed tree is never mutated after
// construction.
package ast

// Kind tags a node with its variant name. The string form is the value
// of the "type" field in the JSON encoding.
type Kind string

const (
	KindTextBody      Kind = "textBody"
	KindLink          Kind = "link"
	KindHeading       Kind = "heading"
	KindQuote         Kind = "quote"
	KindList          Kind = "list"
	KindListItem      Kind = "listItem"
	KindImage         Kind = "image"
	KindCode          Kind = "code"
	KindThematicBreak Kind = "thematicBreak"
	KindParagraph     Kind = "paragraph"
	KindCustom        Kind = "custom"
)

func (k Kind) String() string { return string(k) }

// Style is the presentation of a TextBody run.
type Style string

const (
	StylePlain  Style = "plain"
	StyleStrong Style = "strong"
	StyleItalic Style = "italic"
	StyleCode   Style = "code"
)

// IsValid reports whether s is one of the four known styles.
func (s Style) IsValid() bool {
	switch s {
	case StylePlain, StyleStrong, StyleItalic, StyleCode:
		return true
	}
	return false
}

// Node is implemented by every element of the tree.
type Node interface {
	Kind() Kind
}

// Inline is a styled run or a link inside a block body.
type Inline interface {
	Node
	inline()
}

// Block is a top-level structural unit of a document.
type Block interface {
	Node
	block()
}

// TextBody is a run of text rendered in a single style.
type TextBody struct {
	Style Style
	Value string
}

func (TextBody) Kind() Kind { return KindTextBody }
func (TextBody) inline()    {}

// Link is a hyperlink whose label is a sequence of styled runs. A link never
// contains another link.
type Link struct {
	URL  string
	Body []TextBody
}

func (Link) Kind() Kind { return KindLink }
func (Link) inline()    {}

// Heading is an ATX heading with level 1 to 6.
type Heading struct {
	Level int
	Body  []Inline
}

func (Heading) Kind() Kind { return KindHeading }
func (Heading) block()     {}

// Quote is a block quote; lines of the quote are joined with "\n" before
// inline parsing, so plain runs may contain newlines.
type Quote struct {
	Body []Inline
}

func (Quote) Kind() Kind { return KindQuote }
func (Quote) block()     {}

// ListItem is a single line of a List.
type ListItem struct {
	Body []Inline
}

func (ListItem) Kind() Kind { return KindListItem }

// List is a flat bulleted or numbered list.
type List struct {
	Ordered bool
	Items   []ListItem
}

func (List) Kind() Kind { return KindList }
func (List) block()     {}

// Image is a standalone image with optional alt text and caption.
type Image struct {
	URL     string
	AltText string
	Caption string
}

func (Image) Kind() Kind { return KindImage }
func (Image) block()     {}

// Code is a fenced code block. Lang is empty when the fence had no tag.
type Code struct {
	Lang string
	Body string
}

func (Code) Kind() Kind { return KindCode }
func (Code) block()     {}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

func (ThematicBreak) Kind() Kind { return KindThematicBreak }
func (ThematicBreak) block()     {}

// Paragraph is the fallback block: one line of inline content.
type Paragraph struct {
	Body []Inline
}

func (Paragraph) Kind() Kind { return KindParagraph }
func (Paragraph) block()     {}

// Custom is a block produced by a caller-registered recognizer.
//
// Fields holds the extension payload. Values are expected to be JSON
// encodable; []Inline values are encoded as inline node arrays. Source is
// the matched text the block was extracted from and is not serialized.
type Custom struct {
	CustomType string
	Fields     map[string]any
	Source     string
}

func (Custom) Kind() Kind { return KindCustom }
func (Custom) block()     {}

// Inlines returns the named field as an inline sequence, if it is one.
func (c Custom) Inlines(field string) ([]Inline, bool) {
	v, ok := c.Fields[field]
	if !ok {
		return nil, false
	}
	in, ok := v.([]Inline)
	return in, ok
}

// StringField returns the named field when it holds a string.
func (c Custom) StringField(field string) (string, bool) {
	v, ok := c.Fields[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Document is the result of parsing one input.
type Document struct {
	Frontmatter map[string]string
	Blocks      []Block
}

// Text is shorthand for a TextBody inline.
func Text(style Style, value string) TextBody {
	return TextBody{Style: style, Value: value}
}

// Plain is shorthand for a plain TextBody inline.
func Plain(value string) TextBody {
	return TextBody{Style: StylePlain, Value: value}
}
