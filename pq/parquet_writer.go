// Package pq writes coerced rows to Parquet through Arrow record builders.
package pq

import (
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/apache/arrow-go/v18/parquet/schema"

	"github.com/loicalleyne/hod"
)

const (
	defaultRowGroupByteLimit = 10 * 1024 * 1024
	defaultChunk             = 1024
)

var (
	DefaultWrtp = parquet.NewWriterProperties(
		parquet.WithDictionaryDefault(true),
		parquet.WithVersion(parquet.V2_LATEST),
		parquet.WithCompression(compress.Codecs.Zstd),
		parquet.WithStats(true),
		parquet.WithRootName("hod"),
	)
)

// ParquetWriter buffers typed rows into Arrow records and writes them to a
// Parquet file. Rows are expected in schema order, one value per field,
// the shape produced by hod.Project.
type ParquetWriter struct {
	destFile *os.File
	pqwrt    *pqarrow.FileWriter
	bld      *array.RecordBuilder
	sc       *arrow.Schema
	pending  int
	count    int
}

// NewParquetWriter creates a ParquetWriter for the given Arrow schema,
// normally the result of hod.Schema. It returns the writer and the
// equivalent Parquet schema.
func NewParquetWriter(sc *arrow.Schema, wrtp *parquet.WriterProperties, path string) (*ParquetWriter, *schema.Schema, error) {
	pqschema, err := pqarrow.ToParquet(sc, wrtp, pqarrow.DefaultWriterProps())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get parquet schema: %w", err)
	}

	destFile, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	artp := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	pqwrt, err := pqarrow.NewFileWriter(sc, destFile, wrtp, artp)
	if err != nil {
		destFile.Close()
		return nil, nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}

	bld := array.NewRecordBuilder(memory.DefaultAllocator, sc)
	return &ParquetWriter{destFile: destFile, pqwrt: pqwrt, bld: bld, sc: sc}, pqschema, nil
}

// AppendRow appends one typed row to the current record batch, flushing a
// record to the file whenever the batch reaches the chunk size.
func (pw *ParquetWriter) AppendRow(row []any) error {
	if len(row) != pw.sc.NumFields() {
		return fmt.Errorf("row has %d values, schema has %d fields", len(row), pw.sc.NumFields())
	}
	for i, v := range row {
		if err := appendValue(pw.bld.Field(i), pw.sc.Field(i), v); err != nil {
			return fmt.Errorf("field %q: %w", pw.sc.Field(i).Name, err)
		}
	}
	pw.pending++
	pw.count++
	if pw.pending >= defaultChunk {
		return pw.Flush()
	}
	return nil
}

// Flush writes the buffered rows out as one record.
func (pw *ParquetWriter) Flush() error {
	if pw.pending == 0 {
		return nil
	}
	rec := pw.bld.NewRecord()
	defer rec.Release()
	pw.pending = 0
	if err := pw.pqwrt.WriteBuffered(rec); err != nil {
		return fmt.Errorf("failed to write to parquet: %w", err)
	}
	if pw.pqwrt.RowGroupTotalBytesWritten() >= defaultRowGroupByteLimit {
		pw.pqwrt.NewBufferedRowGroup()
	}
	return nil
}

// WriteRecord writes a single Arrow record to the Parquet file, bypassing
// the row buffer.
func (pw *ParquetWriter) WriteRecord(rec arrow.Record) error {
	err := pw.pqwrt.WriteBuffered(rec)
	if err != nil {
		return fmt.Errorf("failed to write to parquet: %w", err)
	}

	if pw.pqwrt.RowGroupTotalBytesWritten() >= defaultRowGroupByteLimit {
		pw.pqwrt.NewBufferedRowGroup()
	}
	pw.count += int(rec.NumRows())

	return nil
}

// RecordCount returns the total number of rows appended or written.
func (pw *ParquetWriter) RecordCount() int {
	return pw.count
}

// Close flushes any buffered rows and closes the Parquet writer.
func (pw *ParquetWriter) Close() error {
	if err := pw.Flush(); err != nil {
		return err
	}
	pw.bld.Release()
	if err := pw.pqwrt.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	return nil
}

// appendValue loads one typed value into its field builder. Values arrive
// from the coercion engine in their canonical types; a few looser forms
// (plain ints, decimal or timestamp strings) are accepted so bloblang
// mungers can rewrite fields.
func appendValue(bld array.Builder, field arrow.Field, v any) error {
	if v == nil {
		bld.AppendNull()
		return nil
	}
	switch b := bld.(type) {
	case *array.Int8Builder:
		switch n := v.(type) {
		case int8:
			b.Append(n)
		case int64:
			b.Append(int8(n))
		case int:
			b.Append(int8(n))
		default:
			return fmt.Errorf("cannot append %T to int8 column", v)
		}
	case *array.Int16Builder:
		switch n := v.(type) {
		case int16:
			b.Append(n)
		case int64:
			b.Append(int16(n))
		case int:
			b.Append(int16(n))
		default:
			return fmt.Errorf("cannot append %T to int16 column", v)
		}
	case *array.Int32Builder:
		switch n := v.(type) {
		case int32:
			b.Append(n)
		case int64:
			b.Append(int32(n))
		case int:
			b.Append(int32(n))
		default:
			return fmt.Errorf("cannot append %T to int32 column", v)
		}
	case *array.Int64Builder:
		switch n := v.(type) {
		case int64:
			b.Append(n)
		case int:
			b.Append(int64(n))
		default:
			return fmt.Errorf("cannot append %T to int64 column", v)
		}
	case *array.Decimal128Builder:
		dt := field.Type.(*arrow.Decimal128Type)
		switch d := v.(type) {
		case hod.Decimal:
			b.Append(d.Num())
		case string:
			num, err := decimal128.FromString(d, dt.Precision, dt.Scale)
			if err != nil {
				return err
			}
			b.Append(num)
		default:
			return fmt.Errorf("cannot append %T to decimal column", v)
		}
	case *array.BooleanBuilder:
		t, ok := v.(bool)
		if !ok {
			return fmt.Errorf("cannot append %T to boolean column", v)
		}
		b.Append(t)
	case *array.Float32Builder:
		switch f := v.(type) {
		case float32:
			b.Append(f)
		case float64:
			b.Append(float32(f))
		default:
			return fmt.Errorf("cannot append %T to float32 column", v)
		}
	case *array.Float64Builder:
		switch f := v.(type) {
		case float64:
			b.Append(f)
		case float32:
			b.Append(float64(f))
		default:
			return fmt.Errorf("cannot append %T to float64 column", v)
		}
	case *array.BinaryBuilder:
		switch s := v.(type) {
		case string:
			b.Append([]byte(s))
		case []byte:
			b.Append(s)
		default:
			return fmt.Errorf("cannot append %T to binary column", v)
		}
	case *array.StringBuilder:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("cannot append %T to string column", v)
		}
		b.Append(s)
	case *array.TimestampBuilder:
		var tv time.Time
		switch t := v.(type) {
		case time.Time:
			tv = t
		case string:
			var err error
			tv, err = time.Parse(time.RFC3339, t)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("cannot append %T to timestamp column", v)
		}
		ts, err := arrow.TimestampFromTime(tv, arrow.Microsecond)
		if err != nil {
			return err
		}
		b.Append(ts)
	case *array.Time64Builder:
		var t time.Time
		switch tv := v.(type) {
		case time.Time:
			t = tv
		case string:
			var err error
			t, err = time.Parse(hod.OffsetTimeLayout, tv)
			if err != nil {
				t, err = time.Parse(time.RFC3339Nano, tv)
			}
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("cannot append %T to time column", v)
		}
		u := t.UTC()
		ns := int64(u.Hour())*int64(time.Hour) +
			int64(u.Minute())*int64(time.Minute) +
			int64(u.Second())*int64(time.Second) +
			int64(u.Nanosecond())
		b.Append(arrow.Time64(ns))
	case *array.NullBuilder:
		b.AppendNull()
	default:
		return fmt.Errorf("unsupported builder %T", bld)
	}
	return nil
}
