package shape

import "fmt"

// SchemaError reports a structurally invalid descriptor graph or schema
// document. It is a build-time failure class: surfaced while compiling a
// descriptor or a schema, never during dump/load of well-compiled trees.
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string { return "wireshape: schema error: " + e.Msg }

// SchemaErrorf builds a SchemaError from a format string.
func SchemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Msg: fmt.Sprintf(format, args...)}
}

// Registry resolves record names to descriptors for self- and mutually
// referential shapes. A Placeholder created before its target record exists
// resolves lazily through the registry, so construction order does not
// matter as long as every name is registered before the graph is compiled.
type Registry struct {
	records map[string]*Record
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*Record)}
}

// Register binds a record to its name. Re-registering a name replaces the
// previous binding; callers own name uniqueness.
func (r *Registry) Register(rec *Record) {
	r.records[rec.Name] = rec
}

// Lookup returns the record registered under name, or nil.
func (r *Registry) Lookup(name string) *Record {
	return r.records[name]
}

// Placeholder returns a descriptor standing in for the named record.
func (r *Registry) Placeholder(name string) *Placeholder {
	return &Placeholder{Name: name, registry: r}
}

// Placeholder defers a reference to a record that may still be under
// construction when the referencing descriptor is built. The compiler calls
// Resolve when it reaches the placeholder; by that time the target must be
// registered.
type Placeholder struct {
	base
	Name     string
	registry *Registry
}

func (*Placeholder) Kind() Kind { return KindPlaceholder }

// Resolve returns the concrete record this placeholder stands for.
func (p *Placeholder) Resolve() (*Record, error) {
	if p.registry == nil {
		return nil, SchemaErrorf("placeholder %q has no registry", p.Name)
	}
	rec := p.registry.Lookup(p.Name)
	if rec == nil {
		return nil, SchemaErrorf("placeholder %q does not resolve to a registered record", p.Name)
	}
	return rec, nil
}
