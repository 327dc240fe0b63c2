package hod

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSchemaFixture(t *testing.T) *Hod {
	t.Helper()
	h := NewHod()
	require.NoError(t, h.AddColumn(1, "id", TypeBigInt, 0, 0))
	require.NoError(t, h.AddColumn(2, "price", TypeDecimal, 18, 2))
	require.NoError(t, h.AddColumn(3, "active", TypeBit, 0, 0))
	require.NoError(t, h.AddColumn(4, "ratio", TypeDouble, 0, 0))
	require.NoError(t, h.AddColumn(5, "payload", TypeVarBinary, 0, 0))
	require.NoError(t, h.AddColumn(6, "seen", TypeTimestampTZ, 0, 0))
	require.NoError(t, h.AddColumn(7, "note", TypeVarChar, 64, 0))
	return h
}

func TestSchema(t *testing.T) {
	h := newSchemaFixture(t)
	sc, err := h.Schema()
	require.NoError(t, err)
	require.Equal(t, 7, sc.NumFields())

	assert.Equal(t, "id", sc.Field(0).Name)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, sc.Field(0).Type)
	assert.True(t, sc.Field(0).Nullable, "all fields should be nullable")

	dt, ok := sc.Field(1).Type.(*arrow.Decimal128Type)
	require.True(t, ok)
	assert.Equal(t, int32(18), dt.Precision)
	assert.Equal(t, int32(2), dt.Scale)

	assert.Equal(t, arrow.FixedWidthTypes.Boolean, sc.Field(2).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Float64, sc.Field(3).Type)
	assert.Equal(t, arrow.BinaryTypes.Binary, sc.Field(4).Type)
	assert.Equal(t, arrow.FixedWidthTypes.Timestamp_us, sc.Field(5).Type)
	assert.Equal(t, arrow.BinaryTypes.String, sc.Field(6).Type)
}

func TestSchemaEmptyRegistry(t *testing.T) {
	h := NewHod()
	_, err := h.Schema()
	assert.ErrorIs(t, err, ErrNoColumns)
	_, err = h.AvroSchema()
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestSchemaDecimalPrecisionDefault(t *testing.T) {
	h := NewHod()
	require.NoError(t, h.AddColumn(1, "d", TypeNumeric, 0, 4))
	sc, err := h.Schema()
	require.NoError(t, err)
	dt, ok := sc.Field(0).Type.(*arrow.Decimal128Type)
	require.True(t, ok)
	assert.Equal(t, int32(38), dt.Precision, "unset precision should default to the 128-bit maximum")
	assert.Equal(t, int32(4), dt.Scale)
}

func TestSchemaUnnamedColumn(t *testing.T) {
	h := NewHod()
	require.NoError(t, h.AddColumn(2, "", TypeInt, 0, 0))
	sc, err := h.Schema()
	require.NoError(t, err)
	assert.Equal(t, "col2", sc.Field(0).Name, "unnamed columns should fall back to an ordinal-derived name")
}

func TestAvroSchema(t *testing.T) {
	h := newSchemaFixture(t)
	s, err := h.AvroSchema()
	require.NoError(t, err)

	rec, ok := s.(*avro.RecordSchema)
	require.True(t, ok)
	assert.Equal(t, "hod_row", rec.Name())
	require.Len(t, rec.Fields(), 7)
	assert.Equal(t, "id", rec.Fields()[0].Name())
	assert.Equal(t, "note", rec.Fields()[6].Name())

	// Every field is a null union so empty source fields stay representable.
	u, ok := rec.Fields()[0].Type().(*avro.UnionSchema)
	require.True(t, ok)
	require.Len(t, u.Types(), 2)
	assert.Equal(t, avro.Null, u.Types()[0].Type())
	assert.Equal(t, avro.Long, u.Types()[1].Type())

	u, ok = rec.Fields()[1].Type().(*avro.UnionSchema)
	require.True(t, ok)
	prim, ok := u.Types()[1].(*avro.PrimitiveSchema)
	require.True(t, ok)
	dec, ok := prim.Logical().(*avro.DecimalLogicalSchema)
	require.True(t, ok)
	assert.Equal(t, 18, dec.Precision())
	assert.Equal(t, 2, dec.Scale())
}
