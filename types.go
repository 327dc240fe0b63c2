package hod

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
)

// Type identifies the destination column type of a registered column.
// The set is closed: registration reduces it further (see the redirections
// in AddColumn) so the coercion engine only ever dispatches on the types
// the destination can actually receive.
type Type int

const (
	// Exact numerics.
	TypeTinyInt Type = iota
	TypeSmallInt
	TypeInt
	TypeBigInt
	TypeDecimal
	TypeNumeric
	TypeBit
	// TypeBool is stored as TypeBit at registration time.
	TypeBool
	// Approximate numerics. TypeFloat is stored as TypeDouble at
	// registration time.
	TypeReal
	TypeFloat
	TypeDouble
	// Binary.
	TypeBinary
	TypeVarBinary
	TypeLongVarBinary
	// Temporal. Only the offset-aware types are parsed; date, time and
	// timestamp travel as text with an oversized textual precision so every
	// literal form the destination accepts fits.
	TypeDate
	TypeTime
	TypeTimestamp
	TypeTimeTZ
	TypeTimestampTZ
	// Character. TypeXML is stored as TypeLongNVarChar at registration time.
	TypeChar
	TypeNChar
	TypeVarChar
	TypeNVarChar
	TypeLongVarChar
	TypeLongNVarChar
	TypeXML
	// TypeNull always yields a null slot, whatever the raw text.
	TypeNull
)

var typeNames = map[Type]string{
	TypeTinyInt:       "tinyint",
	TypeSmallInt:      "smallint",
	TypeInt:           "int",
	TypeBigInt:        "bigint",
	TypeDecimal:       "decimal",
	TypeNumeric:       "numeric",
	TypeBit:           "bit",
	TypeBool:          "bool",
	TypeReal:          "real",
	TypeFloat:         "float",
	TypeDouble:        "double",
	TypeBinary:        "binary",
	TypeVarBinary:     "varbinary",
	TypeLongVarBinary: "longvarbinary",
	TypeDate:          "date",
	TypeTime:          "time",
	TypeTimestamp:     "timestamp",
	TypeTimeTZ:        "timetz",
	TypeTimestampTZ:   "timestamptz",
	TypeChar:          "char",
	TypeNChar:         "nchar",
	TypeVarChar:       "varchar",
	TypeNVarChar:      "nvarchar",
	TypeLongVarChar:   "longvarchar",
	TypeLongNVarChar:  "longnvarchar",
	TypeXML:           "xml",
	TypeNull:          "null",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// TypeFromName resolves a type name as used in column definition documents.
// Matching is case-insensitive.
func TypeFromName(name string) (Type, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for t, s := range typeNames {
		if s == n {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// redirect applies the destination's own type-mapping rules so downstream
// consumers only see the reduced type set.
func redirect(t Type) Type {
	switch t {
	case TypeXML:
		return TypeLongNVarChar
	case TypeFloat:
		return TypeDouble
	case TypeBool:
		return TypeBit
	default:
		return t
	}
}

// isTemporal reports whether t is stored with the fixed oversized textual
// precision at registration time.
func isTemporal(t Type) bool {
	switch t {
	case TypeDate, TypeTime, TypeTimestamp, TypeTimeTZ, TypeTimestampTZ:
		return true
	}
	return false
}

// Column describes one destination column. Columns are created during
// schema setup and immutable afterwards; Lookup returns them by value.
type Column struct {
	Ordinal   int
	Name      string
	Type      Type
	Precision int
	Scale     int
	// Format is a per-column temporal layout. When set it takes priority
	// over the session-wide default for offset time and timestamp columns.
	Format string
}

// FieldName returns the column's display name, or a positional fallback
// when neither an explicit nor a header-derived name exists.
func (c Column) FieldName() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("col%d", c.Ordinal)
}

// Decimal is a fixed-precision decimal value, already rescaled to its
// column's declared scale.
type Decimal struct {
	num   decimal128.Num
	scale int32
}

// Num returns the 128-bit unscaled representation.
func (d Decimal) Num() decimal128.Num { return d.num }

// Scale returns the number of fractional digits.
func (d Decimal) Scale() int32 { return d.scale }

// String renders the value at its declared scale, reproducing the rounded
// literal exactly.
func (d Decimal) String() string { return d.num.ToString(d.scale) }
