// Package plexus maps a graph of typed in-memory records onto JSON:API
// compound documents and back, including the write protocol that turns a
// mutated — possibly cyclic — record graph into a single atomic
// multi-resource payload and reconciles the server's response onto the very
// same instances.
//
// # Records and Schemas
//
// Resource shapes are declared once in a schema.Registry, then instantiated
// as Records:
//
//	reg := schema.NewRegistry()
//	err := reg.Register(
//	    schema.New("authors").Attrs("firstName").HasMany("books", "books"),
//	    schema.New("books").Attrs("title").HasOne("genre", "genres"),
//	    schema.New("genres").Attrs("name"),
//	)
//
//	authors, _ := reg.Lookup("authors")
//	author := plexus.NewRecord(authors)
//	author.SetAttr("firstName", "Stephen")
//
// A record tracks its persisted snapshot: the attribute values and
// relationship identifiers captured whenever it was last known to match the
// server. Changes and IsDirty diff against that snapshot; IsDirty is gated
// by an include directive, so only relationships the caller names can make
// a graph dirty.
//
// # Include Directives
//
// An Include selects the relationship sub-graph an operation cares about.
// It is one shape shared by three consumers — the dirty check, the payload
// builder, and the destroy/disassociate pass of response application — so
// "in scope" always means the same thing:
//
//	inc := plexus.MustParseInclude(map[string]any{
//	    "books":        "genre",
//	    "specialBooks": nil,
//	})
//
// # Saving
//
// BuildPayload walks the graph along the directive, emitting each visited
// record once. Unpersisted records are tagged method create and minted a
// correlation identifier ("temp-id") so payload resources can reference each
// other before any server id exists; persisted ones are tagged update,
// destroy, or disassociate per their marks. Clean branches are left out of
// the payload entirely.
//
// Apply performs the reverse walk over a response (or any compound
// document): references are resolved through a per-call identity pool, so a
// (type, id) mentioned five times hydrates as one instance, circular
// references included. Members marked for destruction or disassociation are
// pruned from their relationships — but only along branches named in the
// supplied scope.
//
// Client packages the round trip:
//
//	client := plexus.NewClient(reg, &plexus.HTTPTransport{},
//	    plexus.WithBaseURL("https://example.test/api/v1"))
//	err := client.Save(ctx, author, inc)
//
// Transport is the only seam that touches a network; everything in this
// package is synchronous, single-threaded graph work, and a transport
// failure leaves the graph untouched.
package plexus
