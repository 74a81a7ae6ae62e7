package plexus

import (
	"reflect"
	"sort"

	"github.com/google/uuid"

	"github.com/syssam/plexus/schema"
)

// Identifier is the minimal reference to a resource without its body.
// On reads it is (type, id); on writes an unpersisted resource is referenced
// by (type, temp-id) instead, and related resources additionally carry the
// write method.
type Identifier struct {
	ID     string `json:"id,omitempty"`
	TempID string `json:"temp-id,omitempty"`
	Type   string `json:"type"`
	Method Method `json:"method,omitempty"`
}

// Method is the per-resource write method tag emitted for related resources
// in a write payload. The root resource never carries one; its intent is
// implied by the HTTP verb.
type Method string

// Write methods.
const (
	MethodCreate       Method = "create"
	MethodUpdate       Method = "update"
	MethodDestroy      Method = "destroy"
	MethodDisassociate Method = "disassociate"
)

// Record is an instance of a declared resource type: a bag of attribute
// values, relationship links to other records, and the persistence state the
// dirty tracker and serializer consult.
//
// Identity is (type, id) once persisted. Before persistence a record has no
// natural key; its identity is the instance itself, and the serializer mints
// a correlation identifier when the record first appears in a write payload.
type Record struct {
	res *schema.Resource

	id     string
	tempID string

	attrs   map[string]any
	relOne  map[string]*Record
	relMany map[string][]*Record
	meta    map[string]any

	persisted               bool
	markedForDestruction    bool
	markedForDisassociation bool

	snap *snapshot
}

// NewRecord returns a fresh, unpersisted record of the given resource type.
// Its persisted snapshot starts out empty (all nulls).
func NewRecord(res *schema.Resource) *Record {
	return &Record{
		res:     res,
		attrs:   make(map[string]any),
		relOne:  make(map[string]*Record),
		relMany: make(map[string][]*Record),
		snap:    emptySnapshot(),
	}
}

// Schema returns the resource declaration this record was built from.
func (r *Record) Schema() *schema.Resource { return r.res }

// Type returns the wire type tag.
func (r *Record) Type() string { return r.res.Type() }

// ID returns the server-assigned identifier, or "" when unpersisted.
func (r *Record) ID() string { return r.id }

// SetID assigns the server identifier. It does not flip the persisted flag;
// use SetPersisted for that.
func (r *Record) SetID(id string) { r.id = id }

// Persisted reports whether the record reflects a server-side resource.
func (r *Record) Persisted() bool { return r.persisted }

// SetPersisted sets the persisted flag. Asserting true (re)captures the
// persisted snapshot from the current attribute values and relationship
// identifiers; asserting false leaves the snapshot untouched.
func (r *Record) SetPersisted(persisted bool) {
	r.persisted = persisted
	if persisted {
		r.snap = captureSnapshot(r)
	}
}

// Attr returns the current value of an attribute, or nil when unset.
func (r *Record) Attr(name string) any { return r.attrs[name] }

// SetAttr assigns an attribute value. Names not declared in the schema are
// silently dropped, mirroring the wire-format policy for unknown members.
func (r *Record) SetAttr(name string, value any) {
	if !r.res.HasAttr(name) {
		return
	}
	r.attrs[name] = value
}

// Attributes returns a copy of the locally-set attribute map.
func (r *Record) Attributes() map[string]any {
	out := make(map[string]any, len(r.attrs))
	for k, v := range r.attrs {
		out[k] = v
	}
	return out
}

// Related returns the target of a to-one relationship, or nil.
func (r *Record) Related(name string) *Record { return r.relOne[name] }

// SetRelated assigns the target of a to-one relationship. A nil target
// clears it.
func (r *Record) SetRelated(name string, target *Record) {
	if rel, ok := r.res.Rel(name); !ok || rel.ToMany() {
		return
	}
	r.relOne[name] = target
}

// RelatedMany returns the members of a to-many relationship in order. The
// returned slice is the record's own backing slice; callers that append must
// assign the result back via SetRelatedMany.
func (r *Record) RelatedMany(name string) []*Record { return r.relMany[name] }

// SetRelatedMany assigns the full member list of a to-many relationship.
func (r *Record) SetRelatedMany(name string, targets []*Record) {
	if rel, ok := r.res.Rel(name); !ok || !rel.ToMany() {
		return
	}
	if targets == nil {
		targets = []*Record{}
	}
	r.relMany[name] = targets
}

// Meta returns the resource-level meta bag copied verbatim from the last
// document that mentioned this record, or nil.
func (r *Record) Meta() map[string]any { return r.meta }

// MarkForDestruction flags the record so the next in-scope save emits it
// with the destroy method and the response application prunes it.
func (r *Record) MarkForDestruction() { r.markedForDestruction = true }

// MarkForDisassociation flags the record so the next in-scope save detaches
// it from its parent without destroying it server-side.
func (r *Record) MarkForDisassociation() { r.markedForDisassociation = true }

// MarkedForDestruction reports the destruction flag.
func (r *Record) MarkedForDestruction() bool { return r.markedForDestruction }

// MarkedForDisassociation reports the disassociation flag.
func (r *Record) MarkedForDisassociation() bool { return r.markedForDisassociation }

// Unmark clears both destruction and disassociation flags.
func (r *Record) Unmark() {
	r.markedForDestruction = false
	r.markedForDisassociation = false
}

// TempID returns the correlation identifier minted for this record, or ""
// when none has been minted or the record has since been persisted.
func (r *Record) TempID() string { return r.tempID }

// ensureTempID mints a correlation identifier on first use. Minted only for
// unpersisted records at serialization time.
func (r *Record) ensureTempID() string {
	if r.tempID == "" {
		r.tempID = uuid.NewString()
	}
	return r.tempID
}

// clearTempID discards the correlation identifier once the server has
// assigned a real one.
func (r *Record) clearTempID() { r.tempID = "" }

// Identifier returns the wire reference for this record: (type, id) when
// persisted, (type, temp-id) otherwise.
func (r *Record) Identifier() Identifier {
	if r.id != "" {
		return Identifier{Type: r.Type(), ID: r.id}
	}
	return Identifier{Type: r.Type(), TempID: r.tempID}
}

// snapshot is the attribute values and relationship resource-identifiers
// captured the moment persisted-state last became true. Owned by the record;
// the dirty tracker reads it but never mutates it.
type snapshot struct {
	attrs map[string]any
	rels  map[string][]Identifier
}

func emptySnapshot() *snapshot {
	return &snapshot{
		attrs: make(map[string]any),
		rels:  make(map[string][]Identifier),
	}
}

func captureSnapshot(r *Record) *snapshot {
	s := emptySnapshot()
	for name, v := range r.attrs {
		s.attrs[name] = deepCopyValue(v)
	}
	for _, rel := range r.res.Rels() {
		s.rels[rel.Name()] = currentIdentifiers(r, rel)
	}
	return s
}

// currentIdentifiers returns the identifier set a relationship currently
// references. An unpersisted member has no server id, so its correlation
// identifier is minted on demand instead; snapshot comparison can then tell
// two distinct unpersisted instances of the same type apart.
func currentIdentifiers(r *Record, rel *schema.Relationship) []Identifier {
	if rel.ToMany() {
		members := r.relMany[rel.Name()]
		out := make([]Identifier, 0, len(members))
		for _, m := range members {
			out = append(out, snapshotIdentifier(m))
		}
		return out
	}
	if target := r.relOne[rel.Name()]; target != nil {
		return []Identifier{snapshotIdentifier(target)}
	}
	return nil
}

func snapshotIdentifier(m *Record) Identifier {
	if m.id != "" {
		return Identifier{Type: m.Type(), ID: m.id}
	}
	return Identifier{Type: m.Type(), TempID: m.ensureTempID()}
}

// identifiersEqual compares two identifier sets ignoring order.
func identifiersEqual(a, b []Identifier) bool {
	if len(a) != len(b) {
		return false
	}
	ka := make([]string, len(a))
	kb := make([]string, len(b))
	for i := range a {
		ka[i] = a[i].Type + ":" + a[i].ID + ":" + a[i].TempID
		kb[i] = b[i].Type + ":" + b[i].ID + ":" + b[i].TempID
	}
	sort.Strings(ka)
	sort.Strings(kb)
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}

// deepCopyValue copies JSON-shaped values (maps, slices, scalars) so the
// snapshot cannot be mutated through aliased attribute values.
func deepCopyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = deepCopyValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

// valuesEqual compares two attribute values structurally.
func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
