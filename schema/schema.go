package schema

import (
	"fmt"

	"github.com/syssam/plexus/naming"
)

// Resource declares one wire resource type: its attribute names, its
// relationships, and the endpoint it lives under. Declaration order of
// attributes and relationships is preserved so that emitted documents are
// deterministic.
type Resource struct {
	typ      string
	endpoint string
	attrs    []string
	attrSet  map[string]struct{}
	rels     []*Relationship
	relIndex map[string]*Relationship
}

// New returns a new Resource declaration for the given wire type tag.
// Member names are declared in their in-memory (lowerCamel) form; wire-name
// conversion is the caller's concern (see the naming package).
func New(typ string) *Resource {
	return &Resource{
		typ:      typ,
		attrSet:  make(map[string]struct{}),
		relIndex: make(map[string]*Relationship),
	}
}

// Attrs declares attribute names on the resource. Duplicate declarations
// are ignored.
func (r *Resource) Attrs(names ...string) *Resource {
	for _, name := range names {
		if _, ok := r.attrSet[name]; ok {
			continue
		}
		r.attrSet[name] = struct{}{}
		r.attrs = append(r.attrs, name)
	}
	return r
}

// HasOne declares a to-one relationship to the given target type.
func (r *Resource) HasOne(name, target string) *Resource {
	return r.rel(&Relationship{name: name, target: target})
}

// HasMany declares a to-many relationship to the given target type.
func (r *Resource) HasMany(name, target string) *Resource {
	return r.rel(&Relationship{name: name, target: target, many: true})
}

// Endpoint overrides the default URL path segment for the resource.
func (r *Resource) Endpoint(path string) *Resource {
	r.endpoint = path
	return r
}

func (r *Resource) rel(rel *Relationship) *Resource {
	if _, ok := r.relIndex[rel.name]; ok {
		return r
	}
	r.relIndex[rel.name] = rel
	r.rels = append(r.rels, rel)
	return r
}

// Type returns the wire type tag.
func (r *Resource) Type() string { return r.typ }

// Path returns the endpoint path segment, deriving it from the type tag
// unless one was declared explicitly.
func (r *Resource) Path() string {
	if r.endpoint != "" {
		return r.endpoint
	}
	return naming.Endpoint(r.typ)
}

// AttrNames returns the declared attribute names in declaration order.
func (r *Resource) AttrNames() []string {
	out := make([]string, len(r.attrs))
	copy(out, r.attrs)
	return out
}

// HasAttr reports whether the attribute name is declared.
func (r *Resource) HasAttr(name string) bool {
	_, ok := r.attrSet[name]
	return ok
}

// Rels returns the declared relationships in declaration order.
func (r *Resource) Rels() []*Relationship {
	out := make([]*Relationship, len(r.rels))
	copy(out, r.rels)
	return out
}

// Rel looks up a declared relationship by name.
func (r *Resource) Rel(name string) (*Relationship, bool) {
	rel, ok := r.relIndex[name]
	return rel, ok
}

// Relationship describes a single declared relationship: its in-memory name,
// the wire type it targets, and its cardinality.
type Relationship struct {
	name   string
	target string
	many   bool
}

// Name returns the in-memory relationship name.
func (r *Relationship) Name() string { return r.name }

// Target returns the wire type tag of the related resource.
func (r *Relationship) Target() string { return r.target }

// ToMany reports whether the relationship holds an ordered collection
// rather than a single record.
func (r *Relationship) ToMany() bool { return r.many }

// Registry maps wire type tags to their Resource declarations. It is the
// explicit dispatch table consulted whenever a document references a type;
// nothing in the engine dispatches by reflection.
type Registry struct {
	types map[string]*Resource
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Resource)}
}

// Register adds resource declarations to the registry. Registering the same
// type tag twice is a programming error and fails immediately.
func (r *Registry) Register(resources ...*Resource) error {
	for _, res := range resources {
		if _, ok := r.types[res.Type()]; ok {
			return fmt.Errorf("schema: type %q already registered", res.Type())
		}
		r.types[res.Type()] = res
	}
	return nil
}

// Lookup returns the declaration for a wire type tag.
func (r *Registry) Lookup(typ string) (*Resource, bool) {
	res, ok := r.types[typ]
	return res, ok
}
