package plexus

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common failure classes.
var (
	// ErrUnknownResourceType is returned when a document references a wire
	// type that was never registered. It is fatal to the branch being
	// resolved, not to the whole document.
	ErrUnknownResourceType = errors.New("plexus: unknown resource type")

	// ErrMalformedDocument is returned when a document lacks the top-level
	// `data` member. Nothing is applied when it is returned.
	ErrMalformedDocument = errors.New("plexus: malformed document")

	// ErrUnknownRelationship is returned when an include directive names a
	// relationship the schema does not declare. An incomplete write payload
	// must never be sent, so the whole payload build fails.
	ErrUnknownRelationship = errors.New("plexus: unknown relationship")
)

// UnknownResourceTypeError reports a wire type tag with no registered schema.
type UnknownResourceTypeError struct {
	typ string
}

// Error returns the error string.
func (e *UnknownResourceTypeError) Error() string {
	return fmt.Sprintf("plexus: unknown resource type %q", e.typ)
}

// Is reports whether the target error matches UnknownResourceTypeError.
// This allows errors.Is(err, ErrUnknownResourceType) to return true.
func (e *UnknownResourceTypeError) Is(err error) bool {
	return err == ErrUnknownResourceType
}

// Type returns the unregistered wire type tag.
func (e *UnknownResourceTypeError) Type() string {
	return e.typ
}

// NewUnknownResourceTypeError returns a new UnknownResourceTypeError for the
// given wire type tag.
func NewUnknownResourceTypeError(typ string) *UnknownResourceTypeError {
	return &UnknownResourceTypeError{typ: typ}
}

// IsUnknownResourceType returns true if the error is an UnknownResourceTypeError.
func IsUnknownResourceType(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownResourceTypeError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownResourceType)
}

// MalformedDocumentError reports a document that cannot be applied at all.
type MalformedDocumentError struct {
	reason string
}

// Error returns the error string.
func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("plexus: malformed document: %s", e.reason)
}

// Is reports whether the target error matches MalformedDocumentError.
// This allows errors.Is(err, ErrMalformedDocument) to return true.
func (e *MalformedDocumentError) Is(err error) bool {
	return err == ErrMalformedDocument
}

// Reason returns a short description of what is missing or broken.
func (e *MalformedDocumentError) Reason() string {
	return e.reason
}

// NewMalformedDocumentError returns a new MalformedDocumentError with the
// given reason.
func NewMalformedDocumentError(reason string) *MalformedDocumentError {
	return &MalformedDocumentError{reason: reason}
}

// IsMalformedDocument returns true if the error is a MalformedDocumentError.
func IsMalformedDocument(err error) bool {
	if err == nil {
		return false
	}
	var e *MalformedDocumentError
	return errors.As(err, &e) || errors.Is(err, ErrMalformedDocument)
}

// UnknownRelationshipError reports an include directive entry that names a
// relationship absent from the resource schema.
type UnknownRelationshipError struct {
	typ string
	rel string
}

// Error returns the error string.
func (e *UnknownRelationshipError) Error() string {
	return fmt.Sprintf("plexus: resource %q has no relationship %q", e.typ, e.rel)
}

// Is reports whether the target error matches UnknownRelationshipError.
// This allows errors.Is(err, ErrUnknownRelationship) to return true.
func (e *UnknownRelationshipError) Is(err error) bool {
	return err == ErrUnknownRelationship
}

// Type returns the wire type tag of the resource.
func (e *UnknownRelationshipError) Type() string {
	return e.typ
}

// Rel returns the undeclared relationship name.
func (e *UnknownRelationshipError) Rel() string {
	return e.rel
}

// NewUnknownRelationshipError returns a new UnknownRelationshipError for the
// given resource type and relationship name.
func NewUnknownRelationshipError(typ, rel string) *UnknownRelationshipError {
	return &UnknownRelationshipError{typ: typ, rel: rel}
}

// IsUnknownRelationship returns true if the error is an UnknownRelationshipError.
func IsUnknownRelationship(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownRelationshipError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownRelationship)
}

// TransportError wraps a failure reported by the Transport collaborator.
// When it is returned from Save, the record graph is exactly as it was
// before the call.
type TransportError struct {
	Verb string // HTTP verb of the failed request
	URL  string // Request URL
	Err  error  // Underlying transport error
}

// Error returns the error string.
func (e *TransportError) Error() string {
	return fmt.Sprintf("plexus: %s %s: %v", e.Verb, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError returns a new TransportError.
func NewTransportError(verb, url string, err error) *TransportError {
	return &TransportError{Verb: verb, URL: url, Err: err}
}

// IsTransportError returns true if the error is a TransportError.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}
	var e *TransportError
	return errors.As(err, &e)
}
