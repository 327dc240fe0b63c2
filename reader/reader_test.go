package reader

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loicalleyne/hod"
)

func TestNewReaderNilInputs(t *testing.T) {
	h := hod.NewHod()
	_, err := NewReader(nil, strings.NewReader("a,b\n"))
	assert.ErrorIs(t, err, hod.ErrUndefinedInput)
	_, err = NewReader(h, nil)
	assert.ErrorIs(t, err, hod.ErrUndefinedInput)
}

func TestHeaderLine(t *testing.T) {
	h := hod.NewHod()
	rd, err := NewReader(h, strings.NewReader("id,name,price\n1,widget,9.99\n"), WithHeaderLine())
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "price"}, rd.Names())
	assert.Equal(t, []string{"id", "name", "price"}, h.HeaderNames())

	// Unnamed registration picks up the header names.
	require.NoError(t, h.AddColumn(1, "", hod.TypeBigInt, 0, 0))
	c, ok := h.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "id", c.Name)

	require.True(t, rd.Next())
	assert.Equal(t, []string{"1", "widget", "9.99"}, rd.Row())
	assert.Equal(t, 1, rd.Count(), "header line should not count as a data line")
	assert.False(t, rd.Next())
	assert.NoError(t, rd.Err())
}

func TestRowTrailingEmptyFields(t *testing.T) {
	h := hod.NewHod()
	rd, err := NewReader(h, strings.NewReader("1,,\n"))
	require.NoError(t, err)
	require.True(t, rd.Next())
	assert.Equal(t, []string{"1", "", ""}, rd.Row())
}

func TestCustomDelimiter(t *testing.T) {
	h := hod.NewHod()
	rd, err := NewReader(h, strings.NewReader("a|b|c\n1|2|3\n"), WithHeaderLine(), WithDelimiter("|"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, rd.Names())
	require.True(t, rd.Next())
	assert.Equal(t, []string{"1", "2", "3"}, rd.Row())
}

func TestSplitIsNotQuoteAware(t *testing.T) {
	h := hod.NewHod()
	rd, err := NewReader(h, strings.NewReader("\"a,b\",c\n"))
	require.NoError(t, err)
	require.True(t, rd.Next())
	assert.Equal(t, []string{"\"a", "b\"", "c"}, rd.Row())
}

func TestValues(t *testing.T) {
	h := hod.NewHod()
	require.NoError(t, h.AddColumn(1, "id", hod.TypeInt, 0, 0))
	require.NoError(t, h.AddColumn(2, "price", hod.TypeDecimal, 18, 2))
	require.NoError(t, h.AddColumn(3, "active", hod.TypeBit, 0, 0))

	rd, err := NewReader(h, strings.NewReader("42,12.345,1\n7,,0\n"))
	require.NoError(t, err)

	require.True(t, rd.Next())
	row, err := rd.Values()
	require.NoError(t, err)
	require.Len(t, row, 3)
	assert.Equal(t, int32(42), row[0])
	d, ok := row[1].(hod.Decimal)
	require.True(t, ok)
	assert.Equal(t, "12.35", d.String())
	assert.Equal(t, true, row[2])

	require.True(t, rd.Next())
	row, err = rd.Values()
	require.NoError(t, err)
	assert.Nil(t, row[1], "empty field should coerce to nil")
	assert.Equal(t, 2, rd.Count())
}

func TestValuesCoercionError(t *testing.T) {
	h := hod.NewHod()
	require.NoError(t, h.AddColumn(1, "id", hod.TypeInt, 0, 0))

	rd, err := NewReader(h, strings.NewReader("nope\n"))
	require.NoError(t, err)
	require.True(t, rd.Next())
	_, err = rd.Values()
	require.Error(t, err)
	assert.Equal(t, err, rd.Err(), "coercion errors should be retained on the reader")
}

func TestOpenFileMissing(t *testing.T) {
	h := hod.NewHod()
	_, err := OpenFile(h, "does-not-exist.csv")
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	h := hod.NewHod()
	path := t.TempDir() + "/in.csv"
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	rd, err := OpenFile(h, path, WithHeaderLine())
	require.NoError(t, err)
	defer rd.Close()

	assert.Equal(t, []string{"a", "b"}, rd.Names())
	require.True(t, rd.Next())
	assert.Equal(t, []string{"1", "2"}, rd.Row())
	assert.NoError(t, rd.Close())
}
