// Package naming converts member names between their in-memory form and
// their wire form.
//
// Records and schemas use lowerCamel member names ("firstName",
// "specialBooks"); JSON:API documents use underscored names ("first_name",
// "special_books"). Both the serializer and the deserializer go through this
// package so the two directions can never drift apart.
package naming

import "github.com/go-openapi/inflect"

// Wire converts an in-memory member name to its underscored wire form.
//
//	Wire("specialBooks") // "special_books"
func Wire(name string) string {
	return inflect.Underscore(name)
}

// Local converts a wire member name to its lowerCamel in-memory form.
//
//	Local("special_books") // "specialBooks"
func Local(name string) string {
	return inflect.CamelizeDownFirst(name)
}

// Endpoint derives the default URL path segment for a resource type.
func Endpoint(typ string) string {
	return "/" + inflect.Underscore(typ)
}
