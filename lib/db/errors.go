package db

import "fmt"

// --------------------------------------------------------------------------
// Error Kinds
// --------------------------------------------------------------------------

// ErrorKind is the closed set of failure categories surfaced by the store.
type ErrorKind string

const (
	// KindValidation marks bad input shape or size (id length, payload size).
	KindValidation ErrorKind = "validation"
	// KindNotFound marks a lookup or update of an id with no record.
	KindNotFound ErrorKind = "notFound"
	// KindSerialization marks an encode/decode failure at the medium boundary.
	KindSerialization ErrorKind = "serialization"
	// KindInitialization marks a failure to open or create the backing medium.
	KindInitialization ErrorKind = "initialization"
	// KindDatabase marks a generic operational failure, including use of a
	// closed store.
	KindDatabase ErrorKind = "database"
)

// --------------------------------------------------------------------------
// Error Type
// --------------------------------------------------------------------------

// Error is the value type carried in the Err variant of every store Result.
// It is never raised as a panic across the public surface.
type Error struct {
	Kind    ErrorKind // failure category
	Msg     string    // human-readable message
	Context string    // optional context, e.g. the offending id
	Cause   error     // optional underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	s := fmt.Sprintf("localdb (%s): %s", e.Kind, e.Msg)
	if e.Context != "" {
		s += fmt.Sprintf(" (context: %s)", e.Context)
	}
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	return s
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext returns a copy of the error carrying the given context string.
func (e *Error) WithContext(context string) *Error {
	clone := *e
	clone.Context = context
	return &clone
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.Cause = cause
	return &clone
}

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

// NewError creates an error of the given kind.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// ValidationError creates a validation error with the offending input as context.
func ValidationError(msg, context string) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Context: context}
}

// NotFoundError creates a notFound error for the given id.
func NotFoundError(id string) *Error {
	return &Error{Kind: KindNotFound, Msg: "no record found for id", Context: id}
}

// SerializationError creates a serialization error wrapping its cause.
func SerializationError(msg string, cause error) *Error {
	return &Error{Kind: KindSerialization, Msg: msg, Cause: cause}
}

// InitializationError creates an initialization error wrapping its cause.
func InitializationError(msg string, cause error) *Error {
	return &Error{Kind: KindInitialization, Msg: msg, Cause: cause}
}

// DatabaseError creates a database error wrapping its cause.
func DatabaseError(msg string, cause error) *Error {
	return &Error{Kind: KindDatabase, Msg: msg, Cause: cause}
}

// ClosedError is returned by every operation invoked after Close or Reset.
func ClosedError() *Error {
	return &Error{Kind: KindDatabase, Msg: "store is closed"}
}

// --------------------------------------------------------------------------
// Inspection Helpers
// --------------------------------------------------------------------------

// KindOf returns the kind of a store error, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is a store error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
