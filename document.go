package plexus

import (
	"bytes"
	"encoding/json"
)

// Resource is a wire resource object: `{ id?, type, attributes?,
// relationships?, meta? }`, plus the write-only temp-id and method members
// emitted for related resources in write payloads.
type Resource struct {
	ID            string                   `json:"id,omitempty"`
	TempID        string                   `json:"temp-id,omitempty"`
	Type          string                   `json:"type"`
	Method        Method                   `json:"method,omitempty"`
	Attributes    map[string]any           `json:"attributes,omitempty"`
	Relationships map[string]*Relationship `json:"relationships,omitempty"`
	Meta          map[string]any           `json:"meta,omitempty"`
}

// Relationship is a wire relationship object. Present tracks whether the
// `data` member appeared at all, since an absent `data` and an empty one
// mean different things to the deserializer.
type Relationship struct {
	Data    []Identifier
	Many    bool
	Present bool
}

// MarshalJSON emits `{ "data": ... }` with a lone identifier for to-one
// (null when cleared) and an array for to-many.
func (r *Relationship) MarshalJSON() ([]byte, error) {
	if !r.Present {
		return []byte(`{}`), nil
	}
	var data any
	if r.Many {
		data = r.Data
	} else if len(r.Data) > 0 {
		data = r.Data[0]
	}
	return json.Marshal(map[string]any{"data": data})
}

// UnmarshalJSON accepts `data` as an identifier, an identifier array, null,
// or absent.
func (r *Relationship) UnmarshalJSON(b []byte) error {
	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Data == nil {
		*r = Relationship{}
		return nil
	}
	r.Present = true
	trimmed := bytes.TrimSpace(raw.Data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		r.Data = nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		r.Many = true
		return json.Unmarshal(trimmed, &r.Data)
	default:
		var one Identifier
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return err
		}
		r.Data = []Identifier{one}
	}
	return nil
}

// Document is a compound document: primary data (one resource or an ordered
// list) plus the flat `included` sidecar.
type Document struct {
	One      *Resource
	Many     []*Resource
	IsMany   bool
	HasData  bool
	Included []*Resource
	Meta     map[string]any
}

// NewDocument returns a document with a single primary resource.
func NewDocument(primary *Resource) *Document {
	return &Document{One: primary, HasData: true}
}

// MarshalJSON emits `{ "data": ..., "included": ..., "meta": ... }`.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 3)
	if d.HasData {
		if d.IsMany {
			out["data"] = d.Many
		} else {
			out["data"] = d.One
		}
	}
	if len(d.Included) > 0 {
		out["included"] = d.Included
	}
	if len(d.Meta) > 0 {
		out["meta"] = d.Meta
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts `data` as a resource object, a resource array, or
// absent. Absence is recorded, not rejected; the deserializer is the one
// that treats it as malformed.
func (d *Document) UnmarshalJSON(b []byte) error {
	var raw struct {
		Data     json.RawMessage `json:"data"`
		Included []*Resource     `json:"included"`
		Meta     map[string]any  `json:"meta"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	d.Included = raw.Included
	d.Meta = raw.Meta
	if raw.Data == nil {
		return nil
	}
	d.HasData = true
	trimmed := bytes.TrimSpace(raw.Data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		d.IsMany = true
		return json.Unmarshal(trimmed, &d.Many)
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return json.Unmarshal(trimmed, &d.One)
}

// ParseDocument decodes a raw compound document.
func ParseDocument(b []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, NewMalformedDocumentError(err.Error())
	}
	return &d, nil
}
