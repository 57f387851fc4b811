// Package property is the path resolution and mutation engine: it parses
// textual property paths, walks the catalog-described component graph,
// converts between wire values and native field values, and applies
// collection operations to array fields.
package property

import "fmt"

// ErrKind is the closed failure taxonomy of the engine. Every failure a
// public operation can surface carries exactly one of these.
type ErrKind string

const (
	ErrInvalidPath             ErrKind = "invalid_path"
	ErrNoSlot                  ErrKind = "no_slot"
	ErrPropertyNotFound        ErrKind = "property_not_found"
	ErrIndexOutOfRange         ErrKind = "index_out_of_range"
	ErrKeyNotFound             ErrKind = "key_not_found"
	ErrNotTraversable          ErrKind = "not_traversable"
	ErrNotApplicable           ErrKind = "not_applicable"
	ErrNullReference           ErrKind = "null_reference"
	ErrInvalidEnumValue        ErrKind = "invalid_enum_value"
	ErrStructConversionFailed  ErrKind = "struct_conversion_failed"
	ErrUnsupportedPropertyType ErrKind = "unsupported_property_type"
	ErrValueRequired           ErrKind = "value_required"
)

// Error is a typed engine failure. Failures never leave the tree partially
// mutated for single-field operations and are always surfaced as data at the
// call boundary.
type Error struct {
	Kind    ErrKind
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf builds an Error with a formatted message
func Errorf(kind ErrKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
