package plexus

import (
	"fmt"
	"strings"
)

// Include is the canonical include directive: a relationship name maps to
// the nested directive for that branch, with an empty map as the leaf. The
// same normalized directive is consulted by the dirty check, the graph
// serializer, and the destroy/disassociate pass of response application, so
// "in scope" always means the same thing in all three.
type Include map[string]Include

// ParseInclude normalizes the accepted shorthand forms into the canonical
// nested shape:
//
//	ParseInclude("books")                        // {books: {}}
//	ParseInclude("books.genre")                  // {books: {genre: {}}}
//	ParseInclude([]any{"books", "specialBooks"}) // {books: {}, specialBooks: {}}
//	ParseInclude(map[string]any{"books": "genre", "specialBooks": nil})
//	                                             // {books: {genre: {}}, specialBooks: {}}
//
// nil normalizes to the empty directive. An already-canonical Include is
// returned as-is.
func ParseInclude(v any) (Include, error) {
	switch v := v.(type) {
	case nil:
		return Include{}, nil
	case Include:
		return v, nil
	case string:
		out := Include{}
		out.addPath(v)
		return out, nil
	case []string:
		out := Include{}
		for _, e := range v {
			out.addPath(e)
		}
		return out, nil
	case []any:
		out := Include{}
		for _, e := range v {
			nested, err := ParseInclude(e)
			if err != nil {
				return nil, err
			}
			out.merge(nested)
		}
		return out, nil
	case map[string]any:
		out := Include{}
		for name, e := range v {
			nested, err := ParseInclude(e)
			if err != nil {
				return nil, err
			}
			out.mergeBranch(name, nested)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("plexus: cannot build include directive from %T", v)
	}
}

// MustParseInclude is ParseInclude that panics on error, for directives
// written as literals.
func MustParseInclude(v any) Include {
	inc, err := ParseInclude(v)
	if err != nil {
		panic(err)
	}
	return inc
}

// Branch returns the nested directive for a relationship name, or nil when
// the name is out of scope. A leaf returns the empty (non-nil) directive.
func (i Include) Branch(name string) (Include, bool) {
	nested, ok := i[name]
	return nested, ok
}

// addPath splits a dotted path and grafts it into the directive.
func (i Include) addPath(path string) {
	cur := i
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		next, ok := cur[seg]
		if !ok {
			next = Include{}
			cur[seg] = next
		}
		cur = next
	}
}

func (i Include) merge(other Include) {
	for name, nested := range other {
		i.mergeBranch(name, nested)
	}
}

func (i Include) mergeBranch(name string, nested Include) {
	existing, ok := i[name]
	if !ok {
		i[name] = nested
		return
	}
	existing.merge(nested)
}
