package field

import (
	"sort"
	"sync"

	apperrors "github.com/utafrali/addressbook/pkg/errors"
)

// Handler ids shipped with the registry.
const (
	HandlerText    = "text"
	HandlerFlag    = "default_flag"
	HandlerCountry = "country"
	HandlerZone    = "zone"
)

// Registry holds the set of registered address fields and handler
// implementations. Registration happens at startup; lookups afterwards are
// safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
	defs         map[string]*Definition
	order        []string

	compareOnce sync.Once
	compare     []string
}

// NewRegistry creates a registry with the built-in handlers and no fields.
func NewRegistry() *Registry {
	r := &Registry{
		constructors: make(map[string]Constructor),
		defs:         make(map[string]*Definition),
	}
	r.RegisterHandler(HandlerText, func(b Base) Handler { return &TextHandler{Base: b} })
	r.RegisterHandler(HandlerFlag, func(b Base) Handler { return &DefaultFlagHandler{Base: b} })
	r.RegisterHandler(HandlerCountry, func(b Base) Handler { return &CountryHandler{Base: b} })
	r.RegisterHandler(HandlerZone, func(b Base) Handler { return &ZoneHandler{Base: b} })
	return r
}

// RegisterHandler registers a handler constructor under an id. Registering an
// existing id replaces the previous constructor.
func (r *Registry) RegisterHandler(id string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[id] = c
}

// RegisterField adds a field definition to the registry. The definition's
// handler id must already be registered.
func (r *Registry) RegisterField(def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if def.Name == "" {
		return apperrors.InvalidInput("field name is required")
	}
	if _, ok := r.constructors[def.Handler]; !ok {
		return apperrors.InvalidInput("unknown field handler: " + def.Handler)
	}
	if _, ok := r.defs[def.Name]; !ok {
		r.order = append(r.order, def.Name)
	}
	d := def
	r.defs[def.Name] = &d
	return nil
}

// AlterField lets an extension adjust an already registered definition.
func (r *Registry) AlterField(name string, fn func(*Definition)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	def, ok := r.defs[name]
	if !ok {
		return apperrors.InvalidField(name)
	}
	fn(def)
	return nil
}

// IsRegistered reports whether a field name is known to the registry.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[name]
	return ok
}

// Definition returns the definition for a registered field.
func (r *Registry) Definition(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	if !ok {
		return nil, apperrors.InvalidField(name)
	}
	return def, nil
}

// Fields returns all definitions ordered by weight, then registration order.
func (r *Registry) Fields() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight < out[j].Weight })
	return out
}

// Handler builds a handler for a registered field, bound to an address and a
// display context.
func (r *Registry) Handler(name string, address Address, context string) (Handler, error) {
	r.mu.RLock()
	def, ok := r.defs[name]
	var c Constructor
	if ok {
		c = r.constructors[def.Handler]
	}
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.InvalidField(name)
	}
	return c(NewBase(def, address, context)), nil
}

// CompareFields returns the names of fields that participate in address
// equality. The list is computed once and cached; register all fields before
// the first comparison.
func (r *Registry) CompareFields() []string {
	r.compareOnce.Do(func() {
		for _, def := range r.Fields() {
			if def.Compare {
				r.compare = append(r.compare, def.Name)
			}
		}
	})
	return r.compare
}
