package csv2parquet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loicalleyne/hod"
)

func newSession(t *testing.T) *hod.Hod {
	t.Helper()
	h := hod.NewHod()
	require.NoError(t, h.AddColumn(1, "id", hod.TypeBigInt, 0, 0))
	require.NoError(t, h.AddColumn(2, "price", hod.TypeDecimal, 18, 2))
	require.NoError(t, h.AddColumn(3, "name", hod.TypeVarChar, 64, 0))
	return h
}

func writeCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRecordsFromFile(t *testing.T) {
	h := newSession(t)
	in := writeCSV(t, "id,price,name\n1,9.995,widget\n2,,gadget\n")
	out := filepath.Join(t.TempDir(), "out.parquet")

	n, err := RecordsFromFile(h, in, out, ",", true, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	fi, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, fi.Size(), int64(0))
}

func TestRecordsFromFileNoColumns(t *testing.T) {
	h := hod.NewHod()
	_, err := RecordsFromFile(h, "in.csv", "out.parquet", ",", false, nil)
	assert.ErrorIs(t, err, hod.ErrNoColumns)
}

func TestRecordsFromFileCoercionError(t *testing.T) {
	h := newSession(t)
	in := writeCSV(t, "1,2.00,ok\nnope,3.00,bad\n")
	out := filepath.Join(t.TempDir(), "out.parquet")

	n, err := RecordsFromFile(h, in, out, ",", false, nil)
	require.Error(t, err)
	var cerr *hod.ConversionError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, 1, n, "rows before the failure should have been written")
}

func TestBloblangMungerParseError(t *testing.T) {
	_, err := BloblangMunger("root = this |")
	assert.Error(t, err)
}

func TestBloblangMunger(t *testing.T) {
	munge, err := BloblangMunger(`root = this
root.name = this.name.uppercase()`)
	require.NoError(t, err)

	out, err := munge(map[string]any{"id": int64(1), "name": "widget"})
	require.NoError(t, err)
	assert.Equal(t, "WIDGET", out["name"])
	assert.Equal(t, int64(1), out["id"])
}

func TestBloblangMungerDropsRow(t *testing.T) {
	munge, err := BloblangMunger(`root = if this.id == 2 { deleted() } else { this }`)
	require.NoError(t, err)

	out, err := munge(map[string]any{"id": int64(2), "name": "gone"})
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = munge(map[string]any{"id": int64(1), "name": "kept"})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "kept", out["name"])
}

func TestRecordsFromFileWithMunger(t *testing.T) {
	h := newSession(t)
	in := writeCSV(t, "1,2.50,widget\n2,3.00,dropme\n3,4.25,gadget\n")
	out := filepath.Join(t.TempDir(), "out.parquet")

	munge, err := BloblangMunger(`root = if this.name == "dropme" { deleted() } else { this }`)
	require.NoError(t, err)

	n, err := RecordsFromFile(h, in, out, ",", false, munge)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "munged-away rows should not be written")
}
