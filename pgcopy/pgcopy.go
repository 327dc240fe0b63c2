// Package pgcopy bulk-loads coerced rows into PostgreSQL over the COPY
// protocol, presenting a hod session and its reader as a
// pgx.CopyFromSource.
package pgcopy

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/loicalleyne/hod"
	"github.com/loicalleyne/hod/reader"
)

// Conn is the subset of pgx.Conn (and pgxpool.Pool) used here.
type Conn interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// CopyFrom streams every remaining row of r into table, one destination
// column per registered ordinal in ascending order. It returns the number
// of rows copied. The first coercion error aborts the copy.
func CopyFrom(ctx context.Context, conn Conn, table pgx.Identifier, h *hod.Hod, r *reader.Reader) (int64, error) {
	if h.Len() == 0 {
		return 0, hod.ErrNoColumns
	}
	return conn.CopyFrom(ctx, table, h.Names(), NewSource(h, r))
}

// NewSource wraps a session and reader as a pgx.CopyFromSource.
func NewSource(h *hod.Hod, r *reader.Reader) pgx.CopyFromSource {
	return &source{h: h, r: r}
}

type source struct {
	h *hod.Hod
	r *reader.Reader
}

func (s *source) Next() bool { return s.r.Next() }

func (s *source) Values() ([]any, error) {
	row, err := s.r.Values()
	if err != nil {
		return nil, err
	}
	out := s.h.Project(row)
	for i, v := range out {
		// pgx encodes numeric parameters from their text form.
		if d, ok := v.(hod.Decimal); ok {
			out[i] = d.String()
		}
	}
	return out, nil
}

func (s *source) Err() error { return s.r.Err() }
