// Package csv2parquet converts delimited text files to Parquet using a hod
// session's declared schema: every row is coerced through the session's
// registry and appended to a Parquet file, optionally passing through a
// bloblang munger first.
package csv2parquet

import (
	"errors"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/redpanda-data/benthos/v4/public/bloblang"

	"github.com/loicalleyne/hod"
	"github.com/loicalleyne/hod/pq"
	"github.com/loicalleyne/hod/reader"
)

// Munger transforms one coerced row, keyed by column name, before it is
// written. Returning a nil map drops the row.
type Munger func(map[string]any) (map[string]any, error)

// BloblangMunger compiles a bloblang mapping into a Munger. A mapping that
// resolves to deleted() drops the row.
func BloblangMunger(mapping string) (Munger, error) {
	exe, err := bloblang.Parse(mapping)
	if err != nil {
		return nil, err
	}
	return func(m map[string]any) (map[string]any, error) {
		out, err := exe.Query(m)
		if err != nil {
			if errors.Is(err, bloblang.ErrRootDeleted) {
				return nil, nil
			}
			return nil, err
		}
		if out == nil {
			return nil, nil
		}
		mm, ok := out.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("mapping produced %T, want object", out)
		}
		return mm, nil
	}, nil
}

// RecordsFromFile coerces every row of inputFile through h and writes the
// result to outputFile as Parquet. It returns the number of rows written.
func RecordsFromFile(h *hod.Hod, inputFile, outputFile, delimiter string, headerLine bool, munger Munger, opts ...parquet.WriterProperty) (int, error) {
	schema, err := h.Schema()
	if err != nil {
		return 0, err
	}

	rdOpts := []reader.Option{reader.WithDelimiter(delimiter)}
	if headerLine {
		rdOpts = append(rdOpts, reader.WithHeaderLine())
	}
	rd, err := reader.OpenFile(h, inputFile, rdOpts...)
	if err != nil {
		return 0, err
	}
	defer rd.Close()

	prp := pq.DefaultWrtp
	if len(opts) != 0 {
		prp = parquet.NewWriterProperties(opts...)
	}
	pw, _, err := pq.NewParquetWriter(schema, prp, outputFile)
	if err != nil {
		return 0, err
	}

	names := h.Names()
	n := 0
	for rd.Next() {
		vals, err := rd.Values()
		if err != nil {
			pw.Close()
			return n, err
		}
		row := h.Project(vals)
		if munger != nil {
			m, err := munger(rowMap(names, row))
			if err != nil {
				pw.Close()
				return n, err
			}
			if m == nil {
				continue
			}
			for i, name := range names {
				row[i] = m[name]
			}
		}
		if err := pw.AppendRow(row); err != nil {
			pw.Close()
			return n, err
		}
		n++
	}
	if err := rd.Err(); err != nil {
		pw.Close()
		return n, err
	}
	return n, pw.Close()
}

// rowMap renders a projected row as a column-name-keyed map with
// JSON-friendly values, the shape bloblang mappings operate on.
func rowMap(names []string, row []any) map[string]any {
	m := make(map[string]any, len(names))
	for i, name := range names {
		switch v := row[i].(type) {
		case hod.Decimal:
			m[name] = v.String()
		case time.Time:
			m[name] = v.Format(time.RFC3339Nano)
		default:
			m[name] = row[i]
		}
	}
	return m
}
