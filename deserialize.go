package plexus

import (
	"github.com/syssam/plexus/naming"
	"github.com/syssam/plexus/schema"
)

// Apply walks a compound document once and merges its single primary
// resource into rec, wiring every reachable relationship reference against
// the document's `included` sidecar and the primary data.
//
// A nil rec means "construct the record"; the primary resource's type is
// dispatched through the registry. A non-nil rec and its reachable graph
// seed the identity pool, so every reference to an already-known (type, id)
// or correlation identifier resolves to the existing instance rather than a
// fresh one. The pool lives for exactly one call.
//
// destructionScope gates the destroy/disassociate pruning pass: a member
// flagged for destruction or disassociation is dropped from its relationship
// only when that relationship's name is a key of the scope, recursively per
// branch. A pruned member short-circuits; its own payload is not applied.
//
// Records that finish the pass with a server id are marked persisted (which
// recaptures their snapshot) and their correlation identifiers are
// discarded. A document without a top-level `data` member fails with
// MalformedDocumentError and nothing is applied. An explicit `"data": null`
// is a well-formed "no resource" answer: nothing is applied and rec is
// returned as given, nil when no record was supplied.
func Apply(rec *Record, doc *Document, reg *schema.Registry, destructionScope Include) (*Record, error) {
	if doc == nil || !doc.HasData {
		return nil, NewMalformedDocumentError("missing top-level data member")
	}
	if doc.IsMany {
		return nil, NewMalformedDocumentError("expected a single primary resource, got a collection")
	}
	if doc.One == nil {
		return rec, nil
	}
	a := newApplier(reg, doc)
	if rec != nil {
		a.seed(rec, make(map[*Record]struct{}))
	} else {
		var err error
		if rec, err = a.resolve(resourceIdentifier(doc.One)); err != nil {
			return nil, err
		}
	}
	if err := a.apply(rec, doc.One, destructionScope); err != nil {
		return nil, err
	}
	return rec, nil
}

// ApplyMany is Apply for documents whose primary data is a collection. Each
// primary resource is applied against records, matched by identity; primary
// resources with no existing match are constructed. The result preserves
// document order.
func ApplyMany(records []*Record, doc *Document, reg *schema.Registry, destructionScope Include) ([]*Record, error) {
	if doc == nil || !doc.HasData {
		return nil, NewMalformedDocumentError("missing top-level data member")
	}
	if !doc.IsMany {
		return nil, NewMalformedDocumentError("expected a primary resource collection")
	}
	a := newApplier(reg, doc)
	seen := make(map[*Record]struct{})
	for _, rec := range records {
		a.seed(rec, seen)
	}
	out := make([]*Record, 0, len(doc.Many))
	for _, res := range doc.Many {
		rec, err := a.resolve(resourceIdentifier(res))
		if err != nil {
			if IsUnknownResourceType(err) {
				continue
			}
			return nil, err
		}
		if err := a.apply(rec, res, destructionScope); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// poolKey identifies a record within one apply pass, either by server id or
// by correlation identifier.
type poolKey struct {
	typ string
	ref string
}

func idKey(typ, id string) poolKey { return poolKey{typ: typ, ref: "id:" + id} }

func tempKey(typ, tempID string) poolKey { return poolKey{typ: typ, ref: "tmp:" + tempID} }

func resourceIdentifier(res *Resource) Identifier {
	return Identifier{Type: res.Type, ID: res.ID, TempID: res.TempID}
}

// applier holds the per-pass state: the payload index over included plus
// primary data, and the identity pool of records constructed or adopted so
// far. Both are discarded when the pass ends.
type applier struct {
	reg     *schema.Registry
	index   map[poolKey]*Resource
	pool    map[poolKey]*Record
	applied map[*Record]struct{}
}

func newApplier(reg *schema.Registry, doc *Document) *applier {
	a := &applier{
		reg:     reg,
		index:   make(map[poolKey]*Resource),
		pool:    make(map[poolKey]*Record),
		applied: make(map[*Record]struct{}),
	}
	for _, res := range doc.Included {
		a.indexResource(res)
	}
	if doc.IsMany {
		for _, res := range doc.Many {
			a.indexResource(res)
		}
	} else if doc.One != nil {
		a.indexResource(doc.One)
	}
	return a
}

func (a *applier) indexResource(res *Resource) {
	if res == nil {
		return
	}
	if res.ID != "" {
		a.index[idKey(res.Type, res.ID)] = res
	}
	if res.TempID != "" {
		a.index[tempKey(res.Type, res.TempID)] = res
	}
}

// seed registers an existing record graph in the identity pool so the pass
// reuses caller-held instances instead of constructing duplicates.
func (a *applier) seed(rec *Record, seen map[*Record]struct{}) {
	if rec == nil {
		return
	}
	if _, ok := seen[rec]; ok {
		return
	}
	seen[rec] = struct{}{}
	a.adopt(rec)
	for _, rel := range rec.Schema().Rels() {
		for _, member := range relMembers(rec, rel.Name()) {
			a.seed(member, seen)
		}
	}
}

func (a *applier) adopt(rec *Record) {
	if rec.ID() != "" {
		a.pool[idKey(rec.Type(), rec.ID())] = rec
	}
	if rec.TempID() != "" {
		a.pool[tempKey(rec.Type(), rec.TempID())] = rec
	}
}

// resolve finds or creates the canonical record for an identifier. A pool
// hit returns the existing instance unchanged; a miss constructs a bare
// record of the registered type and registers it before returning, so later
// references within the pass — including mutual and circular ones — land on
// the same instance. An unregistered type fails the branch with
// UnknownResourceTypeError.
func (a *applier) resolve(ident Identifier) (*Record, error) {
	if ident.ID != "" {
		if rec, ok := a.pool[idKey(ident.Type, ident.ID)]; ok {
			return rec, nil
		}
	}
	if ident.TempID != "" {
		if rec, ok := a.pool[tempKey(ident.Type, ident.TempID)]; ok {
			// The server has echoed the correlation identifier alongside a
			// real id; the freshly assigned id joins the pool as well.
			if ident.ID != "" {
				rec.SetID(ident.ID)
				a.pool[idKey(ident.Type, ident.ID)] = rec
			}
			return rec, nil
		}
	}
	res, ok := a.reg.Lookup(ident.Type)
	if !ok {
		return nil, NewUnknownResourceTypeError(ident.Type)
	}
	rec := NewRecord(res)
	rec.SetID(ident.ID)
	if ident.ID != "" {
		a.pool[idKey(ident.Type, ident.ID)] = rec
	}
	if ident.TempID != "" {
		a.pool[tempKey(ident.Type, ident.TempID)] = rec
	}
	return rec, nil
}

// payload returns the resource body for an identifier, if the document
// carries one. Relationship references without a matching included entry
// still resolve; they just have nothing further to apply.
func (a *applier) payload(ident Identifier) *Resource {
	if ident.ID != "" {
		if res, ok := a.index[idKey(ident.Type, ident.ID)]; ok {
			return res
		}
	}
	if ident.TempID != "" {
		if res, ok := a.index[tempKey(ident.Type, ident.TempID)]; ok {
			return res
		}
	}
	return nil
}

func (a *applier) apply(rec *Record, res *Resource, scope Include) error {
	if _, done := a.applied[rec]; done {
		return nil
	}
	a.applied[rec] = struct{}{}

	if res.ID != "" {
		rec.SetID(res.ID)
	}
	if res.Meta != nil {
		rec.meta = deepCopyValue(res.Meta).(map[string]any)
	}
	for wireName, value := range res.Attributes {
		// Undeclared attributes are dropped inside SetAttr.
		rec.SetAttr(naming.Local(wireName), value)
	}
	for wireName, relObj := range res.Relationships {
		if err := a.applyRelationship(rec, naming.Local(wireName), relObj, scope); err != nil {
			return err
		}
	}
	if rec.ID() != "" {
		rec.clearTempID()
		rec.SetPersisted(true)
	}
	return nil
}

func (a *applier) applyRelationship(rec *Record, name string, relObj *Relationship, scope Include) error {
	relDef, ok := rec.Schema().Rel(name)
	if !ok {
		// Unknown relationships never raise; the wire format is expected to
		// evolve ahead of older clients.
		return nil
	}
	if relObj == nil || !relObj.Present {
		// No `data`: a to-many resolves to an empty collection if it had
		// none, a to-one stays as it is.
		if relDef.ToMany() && rec.relMany[name] == nil {
			rec.relMany[name] = []*Record{}
		}
		return nil
	}
	nested, scoped := scope.Branch(name)
	if relDef.ToMany() {
		members := make([]*Record, 0, len(relObj.Data))
		for _, ident := range relObj.Data {
			member, err := a.resolve(ident)
			if err != nil {
				if IsUnknownResourceType(err) {
					continue
				}
				return err
			}
			if scoped && pruned(member) {
				continue
			}
			if payload := a.payload(ident); payload != nil {
				if err := a.apply(member, payload, nested); err != nil {
					return err
				}
			}
			members = append(members, member)
		}
		rec.relMany[name] = members
		return nil
	}
	var target *Record
	if len(relObj.Data) > 0 {
		member, err := a.resolve(relObj.Data[0])
		if err != nil {
			if !IsUnknownResourceType(err) {
				return err
			}
		} else if scoped && pruned(member) {
			target = nil
		} else {
			if payload := a.payload(relObj.Data[0]); payload != nil {
				if err := a.apply(member, payload, nested); err != nil {
					return err
				}
			}
			target = member
		}
	}
	rec.relOne[name] = target
	return nil
}

// pruned reports whether a member should be removed by the scoped
// destroy/disassociate pass.
func pruned(r *Record) bool {
	return r.markedForDestruction || r.markedForDisassociation
}
