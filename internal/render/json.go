package render

import (
	"encoding/json"
	"io"

	"git.home.luguber.info/inful/blockmark/internal/ast"
)

// JSON writes the document tree. The frontmatter member is left out when
// the document has none.
type JSON struct {
	Indent string
}

func (r JSON) Render(w io.Writer, doc *ast.Document) error {
	if doc == nil {
		return nilDocument()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", r.Indent)
	enc.SetEscapeHTML(false)
	if len(doc.Frontmatter) == 0 {
		blocks := doc.Blocks
		if blocks == nil {
			blocks = []ast.Block{}
		}
		return enc.Encode(struct {
			Blocks []ast.Block `json:"blocks"`
		}{blocks})
	}
	return enc.Encode(doc)
}
