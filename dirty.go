package plexus

// Change is a single attribute diff reported by Changes.
type Change struct {
	Before any
	After  any
}

// Changes computes the scalar attribute diff for a record.
//
// An unpersisted record reports every non-nil current attribute as
// {nil, current}. A persisted record reports only the attributes whose
// current value differs from the persisted snapshot.
func Changes(r *Record) map[string]Change {
	out := make(map[string]Change)
	if !r.persisted {
		for name, v := range r.attrs {
			if v == nil {
				continue
			}
			out[name] = Change{Before: nil, After: v}
		}
		return out
	}
	for _, name := range r.res.AttrNames() {
		cur, snap := r.attrs[name], r.snap.attrs[name]
		if !valuesEqual(cur, snap) {
			out[name] = Change{Before: snap, After: cur}
		}
	}
	return out
}

// IsDirty reports whether a record needs to be written: its own attributes
// changed, it is marked for destruction or disassociation, or — only for
// relationships named in scope — an in-scope referenced record is itself
// dirty, or the referenced identifier set differs from the persisted
// snapshot (member added, member removed, or belongs-to target swapped).
//
// Dirtiness is scope-gated, never ambient: a relationship absent from scope
// contributes nothing no matter how dirty its members are. Cycles are cut by
// a visited set scoped to the current path, so a record shared by two
// branches is examined again under each branch's own nested scope.
func IsDirty(r *Record, scope Include) bool {
	return isDirty(r, scope, make(map[*Record]struct{}))
}

func isDirty(r *Record, scope Include, seen map[*Record]struct{}) bool {
	if _, ok := seen[r]; ok {
		return false
	}
	seen[r] = struct{}{}
	defer delete(seen, r)

	if r.markedForDestruction || r.markedForDisassociation {
		return true
	}
	if len(Changes(r)) > 0 {
		return true
	}
	for _, rel := range r.res.Rels() {
		nested, ok := scope.Branch(rel.Name())
		if !ok {
			continue
		}
		if !identifiersEqual(currentIdentifiers(r, rel), r.snap.rels[rel.Name()]) {
			return true
		}
		for _, member := range relMembers(r, rel.Name()) {
			if isDirty(member, nested, seen) {
				return true
			}
		}
	}
	return false
}

// relMembers returns the referenced records of a relationship, to-one and
// to-many alike, as a flat list.
func relMembers(r *Record, name string) []*Record {
	if rel, ok := r.res.Rel(name); ok && rel.ToMany() {
		return r.relMany[name]
	}
	if target := r.relOne[name]; target != nil {
		return []*Record{target}
	}
	return nil
}
