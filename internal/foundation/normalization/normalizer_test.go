package normalization

import (
	"strings"
	"testing"

	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

const (
	red   color = "red"
	green color = "green"
	blue  color = "blue"
)

func colors() *Normalizer[color] {
	return New("color", map[string]color{"red": red, "Green": green, "blue": blue}, red)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := colors()
	tests := []struct {
		name  string
		input string
		want  color
	}{
		{"exact", "blue", blue},
		{"case insensitive", "BLUE", blue},
		{"folded key", "green", green},
		{"surrounding spaces", "  green ", green},
		{"unknown falls back", "purple", red},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_Parse_UnknownIsValidationError(t *testing.T) {
	_, err := colors().Parse("purple")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	valid, _ := ce.Context().GetString("valid")
	assert.Equal(t, "blue|green|red", valid)
}

func TestNormalizer_Parse_EmptyYieldsFallback(t *testing.T) {
	got, err := colors().Parse("  ")
	require.NoError(t, err)
	assert.Equal(t, red, got)
}

func TestNormalizer_WithFunc(t *testing.T) {
	n := WithFunc("color", map[string]color{"RED": red}, blue, strings.ToUpper)
	assert.Equal(t, red, n.Normalize("red"))
	assert.True(t, n.Valid("Red"))
	assert.Equal(t, []string{"RED"}, n.Keys())
}
