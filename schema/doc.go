// Package schema declares the shape of wire resources consumed and produced
// by plexus.
//
// A Resource names the attributes and relationships of one wire type; a
// Registry collects Resources so documents can be dispatched by their `type`
// tag. The schema carries no behaviour of its own — every other component
// consults it.
//
// # Quick Start
//
// Declare resources with the chained builder and collect them in a Registry:
//
//	authors := schema.New("authors").
//	    Attrs("firstName", "lastName").
//	    HasMany("books", "books").
//	    HasMany("specialBooks", "books")
//
//	books := schema.New("books").
//	    Attrs("title").
//	    HasOne("genre", "genres")
//
//	genres := schema.New("genres").Attrs("name")
//
//	reg := schema.NewRegistry()
//	if err := reg.Register(authors, books, genres); err != nil {
//	    log.Fatal(err)
//	}
//
// # Naming
//
// Member names are declared in their in-memory lowerCamel form. The engine
// converts to and from the underscored wire form through the naming package,
// so "specialBooks" above appears as "special_books" on the wire.
//
// # Cardinality
//
// HasOne declares a to-one relationship (a single record or nil); HasMany
// declares a to-many relationship (an ordered, possibly empty collection).
// The target argument is the wire type tag of the related resource, which
// must itself be registered before any document referencing it can be
// applied.
//
// # Endpoints
//
// Path returns the URL segment a resource lives under, "/"+type by default:
//
//	schema.New("authors")                      // Path() == "/authors"
//	schema.New("authors").Endpoint("/writers") // Path() == "/writers"
package schema
