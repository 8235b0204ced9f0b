package extension

import (
	"sync"

	"git.home.luguber.info/inful/blockmark/internal/block"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/parser"
)

type entry struct {
	def        Definition
	recognizer block.Recognizer
}

// Registry holds compiled extensions in registration order.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register compiles def and adds it. Names must be unique.
func (r *Registry) Register(def Definition) error {
	rec, err := Build(def)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[rec.Name]; exists {
		return errors.ConfigError("extension already registered").
			WithContext("extension", rec.Name).
			Build()
	}
	resolved, _ := def.Resolve()
	resolved.Name = rec.Name
	r.entries[rec.Name] = entry{def: resolved, recognizer: rec}
	r.order = append(r.order, rec.Name)
	return nil
}

// RegisterAll registers defs in order and stops at the first error.
func (r *Registry) RegisterAll(defs []Definition) error {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the resolved definition registered under name.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.def, ok
}

// List returns the resolved definitions in registration order.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].def)
	}
	return out
}

// Recognizers returns the compiled recognizers in registration order.
func (r *Registry) Recognizers() []block.Recognizer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]block.Recognizer, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].recognizer)
	}
	return out
}

// Unregister removes the extension called name.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		return errors.NewError(errors.CategoryNotFound, "extension not found").
			WithContext("extension", name).
			Build()
	}
	delete(r.entries, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of registered extensions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Apply returns p extended with every registered recognizer. Extensions
// registered later take priority over earlier ones.
func (r *Registry) Apply(p *parser.Parser) *parser.Parser {
	return p.Extend(r.Recognizers()...)
}
