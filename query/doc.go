// Package query builds JSON:API read-request scopes.
//
// A Scope is an immutable value; chaining produces derived copies, so a base
// scope can be shared across call sites without defensive copying:
//
//	scope := query.NewScope().
//	    Page(2).Per(25).
//	    Filter("genre", "horror").
//	    Sort("-published_at").
//	    Fields("books", "title", "published_at").
//	    Include("author", "genre")
//
//	scope.Encode()
//	// fields[books]=title,published_at&filter[genre]=horror&include=author,genre
//	// &page[number]=2&page[size]=25&sort=-published_at
//
// The rendered parameters are attached to read URLs by the client; the
// mapping engine itself never inspects them.
package query
