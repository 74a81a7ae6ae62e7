package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Scope is an immutable read-request scope: pagination, filters, sort order,
// sparse fieldsets, server-side stats, and include paths. Every method
// returns a derived copy, so scopes can be shared and extended freely:
//
//	base := query.NewScope().Per(50)
//	recent := base.Sort("-created_at").Filter("active", true)
//
// Values renders the scope as JSON:API query parameters; the engine attaches
// them to read requests untouched.
type Scope struct {
	pageNumber int
	pageSize   int
	filters    []param
	sorts      []string
	fields     []param
	stats      []param
	includes   []string
}

type param struct {
	name  string
	value string
}

// NewScope returns the empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Page sets the page number.
func (s *Scope) Page(n int) *Scope {
	out := s.clone()
	out.pageNumber = n
	return out
}

// Per sets the page size.
func (s *Scope) Per(n int) *Scope {
	out := s.clone()
	out.pageSize = n
	return out
}

// Filter adds a filter on the given attribute. Values are rendered with
// fmt.Sprint; pass preformatted strings for anything fancier.
func (s *Scope) Filter(name string, value any) *Scope {
	out := s.clone()
	out.filters = append(out.filters, param{name: name, value: fmt.Sprint(value)})
	return out
}

// Sort appends sort fields, "-" prefixed for descending.
func (s *Scope) Sort(fields ...string) *Scope {
	out := s.clone()
	out.sorts = append(out.sorts, fields...)
	return out
}

// Fields restricts the attributes returned for a resource type.
func (s *Scope) Fields(typ string, names ...string) *Scope {
	out := s.clone()
	out.fields = append(out.fields, param{name: typ, value: strings.Join(names, ",")})
	return out
}

// Stats requests server-side calculations for a resource type.
func (s *Scope) Stats(typ string, calcs ...string) *Scope {
	out := s.clone()
	out.stats = append(out.stats, param{name: typ, value: strings.Join(calcs, ",")})
	return out
}

// Include adds dotted relationship paths to side-load.
func (s *Scope) Include(paths ...string) *Scope {
	out := s.clone()
	out.includes = append(out.includes, paths...)
	return out
}

// Values renders the scope as query parameters.
func (s *Scope) Values() url.Values {
	v := url.Values{}
	if s.pageNumber > 0 {
		v.Set("page[number]", strconv.Itoa(s.pageNumber))
	}
	if s.pageSize > 0 {
		v.Set("page[size]", strconv.Itoa(s.pageSize))
	}
	for _, f := range s.filters {
		v.Set("filter["+f.name+"]", f.value)
	}
	if len(s.sorts) > 0 {
		v.Set("sort", strings.Join(s.sorts, ","))
	}
	for _, f := range s.fields {
		v.Set("fields["+f.name+"]", f.value)
	}
	for _, st := range s.stats {
		v.Set("stats["+st.name+"]", st.value)
	}
	if len(s.includes) > 0 {
		v.Set("include", strings.Join(s.includes, ","))
	}
	return v
}

// Encode renders the scope as an encoded query string.
func (s *Scope) Encode() string {
	return s.Values().Encode()
}

func (s *Scope) clone() *Scope {
	out := &Scope{
		pageNumber: s.pageNumber,
		pageSize:   s.pageSize,
		filters:    append([]param(nil), s.filters...),
		sorts:      append([]string(nil), s.sorts...),
		fields:     append([]param(nil), s.fields...),
		stats:      append([]param(nil), s.stats...),
		includes:   append([]string(nil), s.includes...),
	}
	return out
}
