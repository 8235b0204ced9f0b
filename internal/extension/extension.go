// Package extension builds custom block recognizers from declarative
// definitions and keeps them in a registry.
//
// A definition either names a built-in extension (strikethrough, highlight,
// callout) or supplies its own pattern. Capture groups of the pattern become
// named fields of the resulting ast.Custom block; fields listed as inline are
// run through the inline parser.
package extension

import (
	"fmt"
	"regexp"
	"slices"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/block"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/inline"
)

// Definition describes one custom block recognizer.
type Definition struct {
	// Name is the registry key and the CustomType of produced blocks.
	Name string `yaml:"name" json:"name"`
	// Builtin selects a packaged extension. Pattern, Fields and Inline
	// are ignored when it is set.
	Builtin string `yaml:"builtin,omitempty" json:"builtin,omitempty"`
	// Pattern is matched at the start of the remaining input.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	// Fields names the capture groups in order.
	Fields []string `yaml:"fields,omitempty" json:"fields,omitempty"`
	// Inline lists the fields parsed as inline content.
	Inline []string `yaml:"inline,omitempty" json:"inline,omitempty"`
}

var builtinDefinitions = map[string]Definition{
	"strikethrough": {
		Pattern: `~~(.+?)~~`,
		Fields:  []string{"body"},
		Inline:  []string{"body"},
	},
	"highlight": {
		Pattern: `==(.+?)==`,
		Fields:  []string{"body"},
		Inline:  []string{"body"},
	},
	"callout": {
		Pattern: ":::(\\w+)[ \\t]*\\n((?s:.*?))\\n:::",
		Fields:  []string{"kind", "body"},
		Inline:  []string{"body"},
	},
}

// Builtins returns the names of the packaged extensions, sorted.
func Builtins() []string {
	names := make([]string, 0, len(builtinDefinitions))
	for name := range builtinDefinitions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve fills a builtin definition's pattern and fields.
func (d Definition) Resolve() (Definition, error) {
	if d.Builtin == "" {
		return d, nil
	}
	base, ok := builtinDefinitions[d.Builtin]
	if !ok {
		return Definition{}, errors.ConfigError("unknown builtin extension").
			WithContext("extension", d.Name).
			WithContext("builtin", d.Builtin).
			WithContext("valid", Builtins()).
			Build()
	}
	base.Name = d.Name
	if base.Name == "" {
		base.Name = d.Builtin
	}
	base.Builtin = d.Builtin
	return base, nil
}

// Validate checks that the definition can be built.
func (d Definition) Validate() error {
	_, err := Build(d)
	return err
}

// Build compiles the definition into a recognizer.
func Build(d Definition) (block.Recognizer, error) {
	def, err := d.Resolve()
	if err != nil {
		return block.Recognizer{}, err
	}
	if def.Name == "" {
		return block.Recognizer{}, errors.ConfigError("extension name is required").Build()
	}
	if def.Pattern == "" {
		return block.Recognizer{}, errors.ConfigError("extension pattern is required").
			WithContext("extension", def.Name).Build()
	}
	re, err := regexp.Compile(def.Pattern)
	if err != nil {
		return block.Recognizer{}, errors.WrapError(err, errors.CategoryConfig, "invalid extension pattern").
			Fatal().
			WithContext("extension", def.Name).
			Build()
	}
	if n := re.NumSubexp(); len(def.Fields) > n {
		return block.Recognizer{}, errors.ConfigError("more fields than capture groups").
			WithContext("extension", def.Name).
			WithContext("groups", n).
			WithContext("fields", len(def.Fields)).
			Build()
	}
	for _, name := range def.Inline {
		if !slices.Contains(def.Fields, name) {
			return block.Recognizer{}, errors.ConfigError("inline field is not a declared field").
				WithContext("extension", def.Name).
				WithContext("field", name).
				Build()
		}
	}

	r, err := block.FromRegexp(def.Name, re, extractor(def))
	if err != nil {
		return block.Recognizer{}, errors.WrapError(err, errors.CategoryConfig, "build extension").
			WithContext("extension", def.Name).
			Build()
	}
	return r, nil
}

func extractor(def Definition) block.ExtractFunc {
	return func(m block.Match) (ast.Block, error) {
		fields := make(map[string]any, len(m.Groups))
		for i := 1; i < len(m.Groups); i++ {
			name := fmt.Sprintf("group%d", i)
			if i-1 < len(def.Fields) {
				name = def.Fields[i-1]
			}
			if slices.Contains(def.Inline, name) {
				fields[name] = inline.Parse(m.Groups[i])
				continue
			}
			fields[name] = m.Groups[i]
		}
		return ast.Custom{CustomType: def.Name, Fields: fields, Source: m.Text}, nil
	}
}
