// Package normalization maps loosely written configuration strings onto
// typed enum values.
package normalization

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
)

// Func cleans a raw string before lookup.
type Func func(string) string

// Fold trims surrounding whitespace and lower-cases s.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalizer converts strings into values of T.
type Normalizer[T comparable] struct {
	name     string
	clean    Func
	values   map[string]T
	fallback T
	keys     []string
}

// New builds a Normalizer named name (used in error messages). Keys of
// values are folded with Fold; fallback is returned by Normalize on a miss.
func New[T comparable](name string, values map[string]T, fallback T) *Normalizer[T] {
	return WithFunc(name, values, fallback, Fold)
}

// WithFunc is New with a custom cleaning function.
func WithFunc[T comparable](name string, values map[string]T, fallback T, clean Func) *Normalizer[T] {
	n := &Normalizer[T]{
		name:     name,
		clean:    clean,
		values:   make(map[string]T, len(values)),
		fallback: fallback,
	}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	slices.Sort(n.keys)
	return n
}

// Normalize returns the value for raw, or the fallback when raw is unknown.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[n.clean(raw)]; ok {
		return v
	}
	return n.fallback
}

// Parse returns the value for raw. An empty raw yields the fallback; any
// other unknown value is a validation error listing the accepted keys.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	cleaned := n.clean(raw)
	if cleaned == "" {
		return n.fallback, nil
	}
	if v, ok := n.values[cleaned]; ok {
		return v, nil
	}
	var zero T
	return zero, errors.ValidationError("invalid "+n.name).
		WithContext("value", raw).
		WithContext("valid", strings.Join(n.keys, "|")).
		Build()
}

// Valid reports whether raw names a known value.
func (n *Normalizer[T]) Valid(raw string) bool {
	_, ok := n.values[n.clean(raw)]
	return ok
}

// Keys returns the accepted keys, sorted.
func (n *Normalizer[T]) Keys() []string {
	return slices.Clone(n.keys)
}
