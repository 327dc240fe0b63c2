package hod

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/hamba/avro/v2"
	"github.com/tidwall/sjson"
)

// Schema returns the registry as an Arrow schema, one nullable field per
// registered column in ascending ordinal order.
func (h *Hod) Schema() (*arrow.Schema, error) {
	if h.columns.Len() == 0 {
		return nil, ErrNoColumns
	}
	var fields []arrow.Field
	for _, ord := range h.Ordinals() {
		c, _ := h.columns.Get(ord)
		fields = append(fields, arrow.Field{Name: c.FieldName(), Type: c.arrowDataType(), Nullable: true})
	}
	return arrow.NewSchema(fields, nil), nil
}

// arrowDataType maps a column's target type to its Arrow representation.
// Offset times are stored as time-of-day normalized to UTC; offset
// timestamps as microsecond timestamps.
func (c *Column) arrowDataType() arrow.DataType {
	switch c.Type {
	case TypeTinyInt:
		return arrow.PrimitiveTypes.Int8
	case TypeSmallInt:
		return arrow.PrimitiveTypes.Int16
	case TypeInt:
		return arrow.PrimitiveTypes.Int32
	case TypeBigInt:
		return arrow.PrimitiveTypes.Int64
	case TypeDecimal, TypeNumeric:
		prec := int32(c.Precision)
		if prec <= 0 || prec > 38 {
			prec = 38
		}
		return &arrow.Decimal128Type{Precision: prec, Scale: int32(c.Scale)}
	case TypeBit:
		return arrow.FixedWidthTypes.Boolean
	case TypeReal:
		return arrow.PrimitiveTypes.Float32
	case TypeDouble:
		return arrow.PrimitiveTypes.Float64
	case TypeBinary, TypeVarBinary, TypeLongVarBinary:
		return arrow.BinaryTypes.Binary
	case TypeTimeTZ:
		return arrow.FixedWidthTypes.Time64ns
	case TypeTimestampTZ:
		return arrow.FixedWidthTypes.Timestamp_us
	case TypeNull:
		return arrow.Null
	default:
		// Character types and temporal-as-text.
		return arrow.BinaryTypes.String
	}
}

// AvroSchema returns the registry as an Avro record schema for downstream
// consumers that declare their bulk-load contract in Avro. The document is
// assembled field by field and validated by the Avro parser; column names
// must be valid Avro names.
func (h *Hod) AvroSchema() (avro.Schema, error) {
	if h.columns.Len() == 0 {
		return nil, ErrNoColumns
	}
	doc := []byte(`{"type":"record","name":"hod_row","fields":[]}`)
	var err error
	for i, ord := range h.Ordinals() {
		c, _ := h.columns.Get(ord)
		base := fmt.Sprintf("fields.%d", i)
		doc, err = sjson.SetBytes(doc, base+".name", c.FieldName())
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetBytes(doc, base+".type", c.avroType())
		if err != nil {
			return nil, err
		}
	}
	return avro.Parse(string(doc))
}

func (c *Column) avroType() any {
	var t any
	switch c.Type {
	case TypeTinyInt, TypeSmallInt, TypeInt:
		t = "int"
	case TypeBigInt:
		t = "long"
	case TypeDecimal, TypeNumeric:
		prec := c.Precision
		if prec <= 0 || prec > 38 {
			prec = 38
		}
		t = map[string]any{
			"type":        "bytes",
			"logicalType": "decimal",
			"precision":   prec,
			"scale":       c.Scale,
		}
	case TypeBit:
		t = "boolean"
	case TypeReal:
		t = "float"
	case TypeDouble:
		t = "double"
	case TypeBinary, TypeVarBinary, TypeLongVarBinary:
		t = "bytes"
	case TypeTimeTZ:
		t = map[string]any{"type": "long", "logicalType": "time-micros"}
	case TypeTimestampTZ:
		t = map[string]any{"type": "long", "logicalType": "timestamp-micros"}
	case TypeNull:
		return "null"
	default:
		t = "string"
	}
	// Every slot can be null: empty fields coerce to null markers.
	return []any{"null", t}
}
