package plexus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/plexus"
)

// TestChanges tests the scalar attribute diff.
func TestChanges(t *testing.T) {
	t.Parallel()

	t.Run("unpersisted reports non-nil attributes against nil", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		author := newRecord(t, reg, "authors")
		author.SetAttr("firstName", "Stephen")

		changes := plexus.Changes(author)
		require.Len(t, changes, 1)
		assert.Equal(t, plexus.Change{Before: nil, After: "Stephen"}, changes["firstName"])
	})

	t.Run("unpersisted with all-nil attributes reports nothing", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		author := newRecord(t, reg, "authors")
		author.SetAttr("firstName", nil)

		assert.Empty(t, plexus.Changes(author))
	})

	t.Run("persisted diffs against the snapshot", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		author := persistedRecord(t, reg, "authors", "1", map[string]any{"firstName": "Stephen"})
		assert.Empty(t, plexus.Changes(author))

		author.SetAttr("firstName", "Richard")
		changes := plexus.Changes(author)
		require.Len(t, changes, 1)
		assert.Equal(t, plexus.Change{Before: "Stephen", After: "Richard"}, changes["firstName"])
	})

	t.Run("reasserting persisted recaptures the snapshot", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		author := persistedRecord(t, reg, "authors", "1", map[string]any{"firstName": "Stephen"})
		author.SetAttr("firstName", "Richard")
		author.SetPersisted(true)

		assert.Empty(t, plexus.Changes(author))
	})
}

// TestIsDirty tests scope-gated graph dirtiness.
func TestIsDirty(t *testing.T) {
	t.Parallel()

	t.Run("attribute change", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		author := persistedRecord(t, reg, "authors", "1", map[string]any{"firstName": "Stephen"})
		assert.False(t, plexus.IsDirty(author, nil))

		author.SetAttr("firstName", "Richard")
		assert.True(t, plexus.IsDirty(author, nil))
	})

	t.Run("marks are dirty regardless of scope", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		book := persistedRecord(t, reg, "books", "2", map[string]any{"title": "It"})
		book.MarkForDestruction()
		assert.True(t, plexus.IsDirty(book, nil))

		book.Unmark()
		book.MarkForDisassociation()
		assert.True(t, plexus.IsDirty(book, nil))
	})

	t.Run("relationship dirtiness is scope-gated, not ambient", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		book := persistedRecord(t, reg, "books", "2", map[string]any{"title": "It"})
		author := newRecord(t, reg, "authors")
		author.SetID("1")
		author.SetRelatedMany("books", []*plexus.Record{book})
		author.SetPersisted(true)

		book.SetAttr("title", "It (revised)")

		assert.False(t, plexus.IsDirty(author, nil),
			"unscoped relationship must not contribute")
		assert.True(t, plexus.IsDirty(author, plexus.Include{"books": {}}))
	})

	t.Run("identifier set changes count even with clean members", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		b1 := persistedRecord(t, reg, "books", "2", nil)
		b2 := persistedRecord(t, reg, "books", "3", nil)
		author := newRecord(t, reg, "authors")
		author.SetID("1")
		author.SetRelatedMany("books", []*plexus.Record{b1, b2})
		author.SetPersisted(true)

		scope := plexus.Include{"books": {}}
		assert.False(t, plexus.IsDirty(author, scope))

		// Removed member.
		author.SetRelatedMany("books", []*plexus.Record{b1})
		assert.True(t, plexus.IsDirty(author, scope))

		// Added member.
		b3 := persistedRecord(t, reg, "books", "4", nil)
		author.SetRelatedMany("books", []*plexus.Record{b1, b2, b3})
		assert.True(t, plexus.IsDirty(author, scope))
	})

	t.Run("swapping one unpersisted member for another counts", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		draft := newRecord(t, reg, "books")
		author := newRecord(t, reg, "authors")
		author.SetID("1")
		author.SetRelatedMany("books", []*plexus.Record{draft})
		author.SetPersisted(true)

		scope := plexus.Include{"books": {}}
		assert.False(t, plexus.IsDirty(author, scope))

		// Same type, same (empty) attributes, different instance.
		other := newRecord(t, reg, "books")
		author.SetRelatedMany("books", []*plexus.Record{other})
		assert.True(t, plexus.IsDirty(author, scope))
	})

	t.Run("swapped belongs-to target", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		horror := persistedRecord(t, reg, "genres", "10", map[string]any{"name": "Horror"})
		scifi := persistedRecord(t, reg, "genres", "11", map[string]any{"name": "Sci-Fi"})
		book := newRecord(t, reg, "books")
		book.SetID("2")
		book.SetRelated("genre", horror)
		book.SetPersisted(true)

		scope := plexus.Include{"genre": {}}
		assert.False(t, plexus.IsDirty(book, scope))

		book.SetRelated("genre", scifi)
		assert.True(t, plexus.IsDirty(book, scope))
	})

	t.Run("nested scope reaches through clean intermediates", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		genre := persistedRecord(t, reg, "genres", "10", map[string]any{"name": "Horror"})
		book := newRecord(t, reg, "books")
		book.SetID("2")
		book.SetRelated("genre", genre)
		book.SetPersisted(true)
		author := newRecord(t, reg, "authors")
		author.SetID("1")
		author.SetRelatedMany("books", []*plexus.Record{book})
		author.SetPersisted(true)

		genre.SetAttr("name", "Cosmic Horror")

		assert.False(t, plexus.IsDirty(author, plexus.Include{"books": {}}),
			"genre is out of the books leaf scope")
		assert.True(t, plexus.IsDirty(author, plexus.MustParseInclude("books.genre")))
	})

	t.Run("shared member is re-examined under each branch's scope", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		genre := persistedRecord(t, reg, "genres", "10", map[string]any{"name": "Horror"})
		book := newRecord(t, reg, "books")
		book.SetID("2")
		book.SetRelated("genre", genre)
		book.SetPersisted(true)
		author := newRecord(t, reg, "authors")
		author.SetID("1")
		author.SetRelatedMany("books", []*plexus.Record{book})
		author.SetRelatedMany("specialBooks", []*plexus.Record{book})
		author.SetPersisted(true)

		genre.SetAttr("name", "Cosmic Horror")

		// The books leaf branch sees the book as clean; the deeper
		// specialBooks branch must still reach the dirty genre.
		scope := plexus.MustParseInclude(map[string]any{"books": nil, "specialBooks": "genre"})
		assert.True(t, plexus.IsDirty(author, scope))
		assert.False(t, plexus.IsDirty(author, plexus.Include{"books": {}, "specialBooks": {}}))
	})

	t.Run("unpersisted all-nil record is clean", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		author := newRecord(t, reg, "authors")
		assert.False(t, plexus.IsDirty(author, nil))
	})

	t.Run("circular graphs terminate", func(t *testing.T) {
		t.Parallel()

		reg := newLibraryRegistry(t)
		author := newRecord(t, reg, "authors")
		author.SetID("1")
		book := newRecord(t, reg, "books")
		book.SetID("2")
		book.SetRelated("author", author)
		author.SetRelatedMany("books", []*plexus.Record{book})
		book.SetPersisted(true)
		author.SetPersisted(true)

		scope := plexus.MustParseInclude("books.author.books")
		assert.False(t, plexus.IsDirty(author, scope))

		book.SetAttr("title", "It")
		assert.True(t, plexus.IsDirty(author, scope))
	})
}
