package plexus_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/plexus"
	"github.com/syssam/plexus/schema"
)

// newLibraryRegistry builds the author/book/genre schema shared by most
// tests in this package.
func newLibraryRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()
	require.NoError(t, reg.Register(
		schema.New("authors").
			Attrs("firstName", "lastName").
			HasMany("books", "books").
			HasMany("specialBooks", "books"),
		schema.New("books").
			Attrs("title").
			HasOne("genre", "genres").
			HasOne("author", "authors"),
		schema.New("genres").
			Attrs("name").
			HasMany("books", "books"),
	))
	return reg
}

// newRecord instantiates a record of the given registered type.
func newRecord(t *testing.T, reg *schema.Registry, typ string) *plexus.Record {
	t.Helper()
	res, ok := reg.Lookup(typ)
	require.True(t, ok, "type %q not registered", typ)
	return plexus.NewRecord(res)
}

// persistedRecord returns a record that looks freshly loaded from the
// server: id assigned, given attributes set, snapshot captured.
func persistedRecord(t *testing.T, reg *schema.Registry, typ, id string, attrs map[string]any) *plexus.Record {
	t.Helper()
	rec := newRecord(t, reg, typ)
	rec.SetID(id)
	for name, v := range attrs {
		rec.SetAttr(name, v)
	}
	rec.SetPersisted(true)
	return rec
}
