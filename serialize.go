package plexus

import "github.com/syssam/plexus/naming"

// BuildPayload serializes the sub-graph of rec selected by the include
// directive into a write document: the root resource as primary data plus a
// flattened `included` array of every related resource the directive pulls
// in, visited depth-first in pre-order.
//
// The root always carries its id (when persisted) and its full locally-set
// attribute set, and never a method tag; its intent is implied by the HTTP
// verb. Related resources carry a method — create for unpersisted records
// (minting a correlation identifier so payload resources can reference each
// other before any server id exists), otherwise destroy, disassociate, or
// update per the record's marks. A relationship whose members are all
// persisted and clean within its branch scope is omitted from the emitted
// relationships entirely.
//
// A directive entry naming a relationship the schema does not declare fails
// the whole call with UnknownRelationshipError; an incomplete payload is
// never returned. Shared and circular references are emitted once, tracked
// by instance identity.
func BuildPayload(rec *Record, include Include) (*Document, error) {
	s := &serializer{visited: make(map[*Record]struct{})}
	s.visited[rec] = struct{}{}
	root := &Resource{
		Type:       rec.Type(),
		ID:         rec.ID(),
		Attributes: wireAttributes(rec),
	}
	rels, err := s.relationships(rec, include)
	if err != nil {
		return nil, err
	}
	root.Relationships = rels
	doc := NewDocument(root)
	doc.Included = s.included
	return doc, nil
}

type serializer struct {
	visited  map[*Record]struct{}
	included []*Resource
}

func (s *serializer) relationships(r *Record, include Include) (map[string]*Relationship, error) {
	for name := range include {
		if _, ok := r.Schema().Rel(name); !ok {
			return nil, NewUnknownRelationshipError(r.Type(), name)
		}
	}
	out := make(map[string]*Relationship)
	// Declaration order, so the document shape is deterministic.
	for _, rel := range r.Schema().Rels() {
		nested, ok := include.Branch(rel.Name())
		if !ok {
			continue
		}
		members := relMembers(r, rel.Name())
		idents := make([]Identifier, 0, len(members))
		for _, member := range members {
			// A to-many member that is persisted and clean within this
			// branch stays out; if that leaves no members, the whole key is
			// omitted. A to-one target is always referenced when in scope.
			if rel.ToMany() && member.Persisted() && !IsDirty(member, nested) {
				continue
			}
			ident, err := s.emit(member, nested)
			if err != nil {
				return nil, err
			}
			idents = append(idents, ident)
		}
		if len(idents) == 0 {
			continue
		}
		out[naming.Wire(rel.Name())] = &Relationship{
			Data:    idents,
			Many:    rel.ToMany(),
			Present: true,
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// emit adds a related record to the payload once, returning the identifier
// its parent references it by. Records flagged destroy or disassociate need
// no body; the tagged identifier carries the whole intent.
func (s *serializer) emit(member *Record, include Include) (Identifier, error) {
	method := methodFor(member)
	ident := member.Identifier()
	if method == MethodCreate {
		ident.TempID = member.ensureTempID()
	}
	ident.Method = method
	if _, seen := s.visited[member]; seen {
		return ident, nil
	}
	s.visited[member] = struct{}{}
	if method == MethodDestroy || method == MethodDisassociate {
		return ident, nil
	}
	if method == MethodUpdate && !IsDirty(member, include) {
		// Clean reference; the identifier alone is enough.
		return ident, nil
	}
	res := &Resource{Type: member.Type(), Method: method}
	if method == MethodCreate {
		res.TempID = member.TempID()
	} else {
		res.ID = member.ID()
	}
	if method == MethodCreate || len(Changes(member)) > 0 {
		res.Attributes = wireAttributes(member)
	}
	s.included = append(s.included, res)
	rels, err := s.relationships(member, include)
	if err != nil {
		return ident, err
	}
	res.Relationships = rels
	return ident, nil
}

// methodFor derives the write method for a related resource.
func methodFor(r *Record) Method {
	switch {
	case !r.persisted:
		return MethodCreate
	case r.markedForDestruction:
		return MethodDestroy
	case r.markedForDisassociation:
		return MethodDisassociate
	default:
		return MethodUpdate
	}
}

// wireAttributes converts a record's locally-set attributes to their wire
// names. Attributes never set are not emitted.
func wireAttributes(r *Record) map[string]any {
	if len(r.attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(r.attrs))
	for name, v := range r.attrs {
		out[naming.Wire(name)] = v
	}
	return out
}
