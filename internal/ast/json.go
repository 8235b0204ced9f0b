package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Every node encodes as a JSON object whose "type" member names the variant.
// Custom blocks are flattened: {"type":"custom","customType":...,<fields>}.

func (t TextBody) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  Kind   `json:"type"`
		Style Style  `json:"style"`
		Value string `json:"value"`
	}{KindTextBody, t.Style, t.Value})
}

func (l Link) MarshalJSON() ([]byte, error) {
	body := l.Body
	if body == nil {
		body = []TextBody{}
	}
	return json.Marshal(struct {
		Type Kind       `json:"type"`
		URL  string     `json:"url"`
		Body []TextBody `json:"body"`
	}{KindLink, l.URL, body})
}

func (h Heading) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  Kind     `json:"type"`
		Level int      `json:"level"`
		Body  []Inline `json:"body"`
	}{KindHeading, h.Level, nonNil(h.Body)})
}

func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind     `json:"type"`
		Body []Inline `json:"body"`
	}{KindQuote, nonNil(q.Body)})
}

func (i ListItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind     `json:"type"`
		Body []Inline `json:"body"`
	}{KindListItem, nonNil(i.Body)})
}

func (l List) MarshalJSON() ([]byte, error) {
	items := l.Items
	if items == nil {
		items = []ListItem{}
	}
	return json.Marshal(struct {
		Type    Kind       `json:"type"`
		Ordered bool       `json:"ordered"`
		Items   []ListItem `json:"items"`
	}{KindList, l.Ordered, items})
}

func (i Image) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    Kind   `json:"type"`
		URL     string `json:"url"`
		AltText string `json:"altText"`
		Caption string `json:"caption"`
	}{KindImage, i.URL, i.AltText, i.Caption})
}

func (c Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind   `json:"type"`
		Lang string `json:"lang,omitempty"`
		Body string `json:"body"`
	}{KindCode, c.Lang, c.Body})
}

func (ThematicBreak) MarshalJSON() ([]byte, error) {
	return []byte(`{"type":"thematicBreak"}`), nil
}

func (p Paragraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind     `json:"type"`
		Body []Inline `json:"body"`
	}{KindParagraph, nonNil(p.Body)})
}

func (c Custom) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(c.Fields)+2)
	for k, v := range c.Fields {
		if k == "type" || k == "customType" {
			continue
		}
		obj[k] = v
	}
	obj["type"] = KindCustom
	obj["customType"] = c.CustomType
	return json.Marshal(obj)
}

func (d Document) MarshalJSON() ([]byte, error) {
	fm := d.Frontmatter
	if fm == nil {
		fm = map[string]string{}
	}
	blocks := d.Blocks
	if blocks == nil {
		blocks = []Block{}
	}
	return json.Marshal(struct {
		Frontmatter map[string]string `json:"frontmatter"`
		Blocks      []Block           `json:"blocks"`
	}{fm, blocks})
}

func nonNil(in []Inline) []Inline {
	if in == nil {
		return []Inline{}
	}
	return in
}

// DecodeDocument decodes the JSON form produced by Document.MarshalJSON.
func DecodeDocument(data []byte) (*Document, error) {
	var raw struct {
		Frontmatter map[string]string `json:"frontmatter"`
		Blocks      []json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc := &Document{Frontmatter: raw.Frontmatter, Blocks: make([]Block, 0, len(raw.Blocks))}
	for i, rb := range raw.Blocks {
		b, err := DecodeBlock(rb)
		if err != nil {
			return nil, fmt.Errorf("decode block %d: %w", i, err)
		}
		doc.Blocks = append(doc.Blocks, b)
	}
	return doc, nil
}

type envelope struct {
	Type Kind `json:"type"`
}

func peekKind(data []byte) (Kind, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", err
	}
	if env.Type == "" {
		return "", fmt.Errorf("missing \"type\" member")
	}
	return env.Type, nil
}

// DecodeBlock decodes a single JSON block object.
func DecodeBlock(data []byte) (Block, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindHeading:
		var v struct {
			Level int               `json:"level"`
			Body  []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		if v.Level < 1 || v.Level > 6 {
			return nil, fmt.Errorf("heading level %d out of range", v.Level)
		}
		body, err := decodeInlines(v.Body)
		if err != nil {
			return nil, err
		}
		return Heading{Level: v.Level, Body: body}, nil
	case KindQuote, KindParagraph:
		var v struct {
			Body []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		body, err := decodeInlines(v.Body)
		if err != nil {
			return nil, err
		}
		if kind == KindQuote {
			return Quote{Body: body}, nil
		}
		return Paragraph{Body: body}, nil
	case KindList:
		var v struct {
			Ordered bool `json:"ordered"`
			Items   []struct {
				Body []json.RawMessage `json:"body"`
			} `json:"items"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		list := List{Ordered: v.Ordered, Items: make([]ListItem, 0, len(v.Items))}
		for _, it := range v.Items {
			body, err := decodeInlines(it.Body)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, ListItem{Body: body})
		}
		return list, nil
	case KindImage:
		var v struct {
			URL     string `json:"url"`
			AltText string `json:"altText"`
			Caption string `json:"caption"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return Image(v), nil
	case KindCode:
		var v struct {
			Lang string `json:"lang"`
			Body string `json:"body"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return Code(v), nil
	case KindThematicBreak:
		return ThematicBreak{}, nil
	case KindCustom:
		return decodeCustom(data)
	default:
		return nil, fmt.Errorf("unknown block type %q", kind)
	}
}

func decodeCustom(data []byte) (Block, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	c := Custom{Fields: make(map[string]any, len(members))}
	if err := json.Unmarshal(members["customType"], &c.CustomType); err != nil || c.CustomType == "" {
		return nil, fmt.Errorf("custom block without customType")
	}
	for k, raw := range members {
		if k == "type" || k == "customType" {
			continue
		}
		if in, ok := tryInlines(raw); ok {
			c.Fields[k] = in
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("custom field %q: %w", k, err)
		}
		c.Fields[k] = v
	}
	return c, nil
}

// tryInlines decodes raw as an inline sequence when it is a non-empty array
// of inline node objects.
func tryInlines(raw json.RawMessage) ([]Inline, bool) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, false
	}
	in, err := decodeInlines(items)
	if err != nil {
		return nil, false
	}
	return in, true
}

func decodeInlines(items []json.RawMessage) ([]Inline, error) {
	out := make([]Inline, 0, len(items))
	for _, raw := range items {
		n, err := DecodeInline(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// DecodeInline decodes a single JSON inline object.
func DecodeInline(data []byte) (Inline, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindTextBody:
		return decodeTextBody(data)
	case KindLink:
		var v struct {
			URL  string            `json:"url"`
			Body []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		l := Link{URL: v.URL, Body: make([]TextBody, 0, len(v.Body))}
		for _, raw := range v.Body {
			tb, err := decodeTextBody(raw)
			if err != nil {
				return nil, fmt.Errorf("link body: %w", err)
			}
			l.Body = append(l.Body, tb)
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown inline type %q", kind)
	}
}

func decodeTextBody(data []byte) (TextBody, error) {
	var v struct {
		Type  Kind   `json:"type"`
		Style Style  `json:"style"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return TextBody{}, err
	}
	if v.Type != KindTextBody {
		return TextBody{}, fmt.Errorf("expected textBody, got %q", v.Type)
	}
	if !v.Style.IsValid() {
		return TextBody{}, fmt.Errorf("unknown style %q", v.Style)
	}
	return TextBody{Style: v.Style, Value: v.Value}, nil
}
