package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/plexus/query"
)

// TestScopeValues tests parameter rendering.
func TestScopeValues(t *testing.T) {
	t.Parallel()

	scope := query.NewScope().
		Page(2).Per(25).
		Filter("genre", "horror").
		Sort("-published_at", "title").
		Fields("books", "title", "published_at").
		Stats("books", "count").
		Include("author", "genre")

	v := scope.Values()
	assert.Equal(t, "2", v.Get("page[number]"))
	assert.Equal(t, "25", v.Get("page[size]"))
	assert.Equal(t, "horror", v.Get("filter[genre]"))
	assert.Equal(t, "-published_at,title", v.Get("sort"))
	assert.Equal(t, "title,published_at", v.Get("fields[books]"))
	assert.Equal(t, "count", v.Get("stats[books]"))
	assert.Equal(t, "author,genre", v.Get("include"))
}

// TestScopeEmpty tests that the empty scope renders nothing.
func TestScopeEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, query.NewScope().Encode())
}

// TestScopeImmutability tests that derivation never mutates the receiver.
func TestScopeImmutability(t *testing.T) {
	t.Parallel()

	base := query.NewScope().Per(50)
	derived := base.Filter("active", true).Sort("-created_at")

	assert.Empty(t, base.Values().Get("filter[active]"))
	assert.Empty(t, base.Values().Get("sort"))
	assert.Equal(t, "50", base.Values().Get("page[size]"))

	assert.Equal(t, "true", derived.Values().Get("filter[active]"))
	assert.Equal(t, "50", derived.Values().Get("page[size]"))
}
