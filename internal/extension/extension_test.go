package extension

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/parser"
)

func TestBuild_BuiltinStrikethrough(t *testing.T) {
	r, err := Build(Definition{Name: "strikethrough", Builtin: "strikethrough"})
	require.NoError(t, err)

	m, ok := r.Match("~~**gone** now~~\nnext")
	require.True(t, ok)
	b, err := r.Extract(m)
	require.NoError(t, err)
	require.Equal(t, ast.Custom{
		CustomType: "strikethrough",
		Fields: map[string]any{"body": []ast.Inline{
			ast.Text(ast.StyleStrong, "gone"),
			ast.Plain(" now"),
		}},
		Source: "~~**gone** now~~",
	}, b)
}

func TestBuild_BuiltinNameDefaultsToBuiltin(t *testing.T) {
	r, err := Build(Definition{Builtin: "highlight"})
	require.NoError(t, err)
	require.Equal(t, "highlight", r.Name)
}

func TestBuild_Callout_IsMultiLine(t *testing.T) {
	r, err := Build(Definition{Name: "callout", Builtin: "callout"})
	require.NoError(t, err)

	m, ok := r.Match(":::warning\nMind the *gap*\nplease\n:::\nafter")
	require.True(t, ok)
	b, err := r.Extract(m)
	require.NoError(t, err)
	c := b.(ast.Custom)
	kind, ok := c.StringField("kind")
	require.True(t, ok)
	require.Equal(t, "warning", kind)
	body, ok := c.Inlines("body")
	require.True(t, ok)
	require.Equal(t, []ast.Inline{
		ast.Plain("Mind the "),
		ast.Text(ast.StyleItalic, "gap"),
		ast.Plain("\nplease"),
	}, body)
}

func TestBuild_PatternFieldsAndExtraGroups(t *testing.T) {
	r, err := Build(Definition{
		Name:    "kbd",
		Pattern: `\[\[(\w+)\]\]\+(\w+)`,
		Fields:  []string{"key"},
	})
	require.NoError(t, err)

	m, ok := r.Match("[[ctrl]]+c")
	require.True(t, ok)
	b, err := r.Extract(m)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"key": "ctrl", "group2": "c"}, b.(ast.Custom).Fields)
}

func TestBuild_InvalidDefinitions(t *testing.T) {
	cases := []struct {
		name string
		def  Definition
	}{
		{"unknown builtin", Definition{Name: "x", Builtin: "tables"}},
		{"missing name", Definition{Pattern: "x"}},
		{"missing pattern", Definition{Name: "x"}},
		{"bad pattern", Definition{Name: "x", Pattern: "("}},
		{"too many fields", Definition{Name: "x", Pattern: "(a)", Fields: []string{"a", "b"}}},
		{"undeclared inline", Definition{Name: "x", Pattern: "(a)", Fields: []string{"a"}, Inline: []string{"b"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryConfig))
		})
	}
}

func TestBuiltins_Sorted(t *testing.T) {
	require.Equal(t, []string{"callout", "highlight", "strikethrough"}, Builtins())
}

func TestRegistry_RegisterListAndUnregister(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterAll([]Definition{
		{Name: "strike", Builtin: "strikethrough"},
		{Name: "mark", Builtin: "highlight"},
	}))
	require.Equal(t, 2, reg.Count())

	def, ok := reg.Get("strike")
	require.True(t, ok)
	require.Equal(t, `~~(.+?)~~`, def.Pattern)
	require.Equal(t, "strike", def.Name)

	names := []string{}
	for _, d := range reg.List() {
		names = append(names, d.Name)
	}
	require.Equal(t, []string{"strike", "mark"}, names)

	err := reg.Register(Definition{Name: "strike", Builtin: "highlight"})
	require.ErrorContains(t, err, "already registered")

	require.NoError(t, reg.Unregister("strike"))
	require.Equal(t, 1, reg.Count())
	require.True(t, errors.HasCategory(reg.Unregister("strike"), errors.CategoryNotFound))
}

func TestRegistry_Apply_LaterRegistrationWins(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Definition{Name: "first", Pattern: `==(.+?)==`, Fields: []string{"body"}}))
	require.NoError(t, reg.Register(Definition{Name: "second", Pattern: `==(.+?)==`, Fields: []string{"body"}}))

	doc, err := reg.Apply(parser.New()).Parse("==x==\n\n# h")
	require.NoError(t, err)
	require.Equal(t, "second", doc.Blocks[0].(ast.Custom).CustomType)
	require.Equal(t, ast.KindHeading, doc.Blocks[1].Kind())
}
