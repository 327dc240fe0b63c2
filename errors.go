package hod

import (
	"errors"
	"fmt"
)

// Schema registration and row coercion errors.
var (
	ErrInvalidOrdinal      = errors.New("column ordinal must be greater than zero")
	ErrColumnCountMismatch = errors.New("column ordinal exceeds source column count")
	ErrDuplicateColumn     = errors.New("column name already registered at a different ordinal")
	ErrColumnNotFound      = errors.New("no field in row for registered column")
	ErrSchemaMismatch      = errors.New("row does not match source schema")
	ErrUnknownType         = errors.New("unknown column type")
	ErrNoColumns           = errors.New("no columns registered")
	ErrUndefinedInput      = errors.New("nil input")
	ErrInvalidInput        = errors.New("invalid input")
)

// ConversionError reports a raw field value that could not be interpreted
// as its column's target type, or failed a required exact-fit check.
type ConversionError struct {
	// Value is the offending raw text as it was handed to the failing
	// parser.
	Value string
	// Type is the target type of the column.
	Type Type
	err  error
}

func (e *ConversionError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("cannot convert %q to %s : %v", e.Value, e.Type, e.err)
	}
	return fmt.Sprintf("cannot convert %q to %s", e.Value, e.Type)
}

// Unwrap returns the underlying parse failure, if any.
func (e *ConversionError) Unwrap() error { return e.err }
