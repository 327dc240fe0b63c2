// Package reader is the line-oriented I/O collaborator for hod: it pulls
// delimited lines from a file or io.Reader, splits them into raw fields on
// a literal delimiter and runs them through a session's coercion engine.
// Splitting is not quote-aware; quotes and embedded delimiters are treated
// as part of the data, matching the destination's own bulk-copy utilities.
package reader

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/loicalleyne/hod"
)

const DefaultDelimiter = ","

// Option configures a Reader.
type (
	Option func(config)
	config *Reader
)

// Reader iterates a delimited text source one logical row at a time. It is
// synchronous: one row is fully coerced before the next line is requested
// from the source.
type Reader struct {
	h          *hod.Hod
	f          *os.File
	sc         *bufio.Scanner
	delimiter  string
	headerLine bool
	bufSize    int
	names      []string
	cur        string
	count      int
	err        error
}

// NewReader returns a Reader consuming delimited lines from r for the
// session h. When WithHeaderLine is set, the first line is read immediately
// and injected into the session as its header-derived column name list, so
// the Reader should be created before columns are registered.
func NewReader(h *hod.Hod, r io.Reader, opts ...Option) (*Reader, error) {
	if h == nil || r == nil {
		return nil, hod.ErrUndefinedInput
	}
	rd := &Reader{
		h:         h,
		delimiter: DefaultDelimiter,
		bufSize:   1024 * 64,
	}
	for _, opt := range opts {
		opt(rd)
	}
	rd.sc = bufio.NewScanner(r)
	rd.sc.Buffer(make([]byte, rd.bufSize), 1024*1024)
	if rd.headerLine {
		if rd.sc.Scan() {
			rd.names = strings.Split(rd.sc.Text(), rd.delimiter)
			h.SetHeaderNames(rd.names)
		} else if err := rd.sc.Err(); err != nil {
			return nil, err
		}
	}
	return rd, nil
}

// OpenFile opens path and returns a Reader over it. The file is owned by
// the Reader and released by Close, or here on any construction failure.
func OpenFile(h *hod.Hod, path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rd, err := NewReader(h, f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	rd.f = f
	return rd, nil
}

// Next advances to the next line of the source. It returns false at end of
// input or on a read error; check Err after a false return.
func (r *Reader) Next() bool {
	if r.sc.Scan() {
		r.cur = r.sc.Text()
		r.count++
		return true
	}
	if err := r.sc.Err(); err != nil {
		r.err = err
	}
	return false
}

// Row splits the current line on the configured delimiter. Trailing empty
// fields are preserved.
func (r *Reader) Row() []string {
	return strings.Split(r.cur, r.delimiter)
}

// Values coerces the current line through the session's registry and
// returns the typed row. Together with Next and Err this satisfies the
// pgx CopyFromSource contract.
func (r *Reader) Values() ([]any, error) {
	row, err := r.h.CoerceRow(r.Row())
	if err != nil {
		r.err = err
		return nil, err
	}
	return row, nil
}

// Names returns the header-derived column names, if a header line was read.
func (r *Reader) Names() []string { return r.names }

// Count returns the number of data lines read so far.
func (r *Reader) Count() int { return r.count }

// Err returns the last read or coercion error encountered.
func (r *Reader) Err() error { return r.err }

// Close releases the underlying file, if the Reader owns one.
func (r *Reader) Close() error {
	if r.f != nil {
		return r.f.Close()
	}
	return nil
}
