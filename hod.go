// Package hod is a Go library for coercing delimited text rows into
// strongly typed values for loading into a column-oriented destination.
// A Hod holds the declared schema of the destination (one entry per
// ordinal position, with type, precision, scale and optional temporal
// layout) and converts already-split rows of raw text fields into typed
// rows, applying the same rounding, truncation and encoding rules the
// destination's own bulk-copy path applies.
package hod

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	omap "github.com/wk8/go-ordered-map/v2"
)

// Option configures a Hod.
type (
	Option func(config)
	config *Hod
)

// Hod is one ingestion session: the column registry plus its session-wide
// temporal formats. The registry is mutated only during schema setup;
// during coercion it is read-only and may be shared across goroutines
// working rows of the same schema.
type Hod struct {
	columns         *omap.OrderedMap[int, *Column]
	headerNames     []string
	timeFormat      string
	timestampFormat string
	log             *slog.Logger
}

// Temporal literal forms used when neither a per-column nor a session-wide
// layout is configured.
const (
	// OffsetTimeLayout is the ISO offset-time literal form. A fractional
	// second in the input is accepted without appearing in the layout.
	OffsetTimeLayout = "15:04:05Z07:00"
	// OffsetTimestampLayout is the ISO offset-timestamp literal form.
	OffsetTimestampLayout = "2006-01-02T15:04:05Z07:00"
)

// Oversized textual precision applied to temporal columns so the longest
// supported literal form fits.
const temporalTextPrecision = 50

// NewHod returns a new ingestion session.
func NewHod(opts ...Option) *Hod {
	h := &Hod{
		columns: omap.New[int, *Column](),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AddColumn registers the column at ordinal (1-based). An empty name
// defaults to the header-derived name at that position when header names
// are known. Registering the same ordinal twice overwrites the earlier
// entry.
func (h *Hod) AddColumn(ordinal int, name string, typ Type, precision, scale int) error {
	return h.addColumn(ordinal, name, typ, precision, scale, "")
}

// AddColumnWithFormat registers a column along with a temporal layout that
// overrides the session-wide default for that column.
func (h *Hod) AddColumnWithFormat(ordinal int, name string, typ Type, precision, scale int, layout string) error {
	return h.addColumn(ordinal, name, typ, precision, scale, layout)
}

func (h *Hod) addColumn(ordinal int, name string, typ Type, precision, scale int, layout string) error {
	if ordinal <= 0 {
		h.log.Debug("column rejected", "ordinal", ordinal, "err", ErrInvalidOrdinal)
		return fmt.Errorf("%w : %d", ErrInvalidOrdinal, ordinal)
	}
	colName := strings.TrimSpace(name)
	if colName == "" && len(h.headerNames) >= ordinal {
		colName = h.headerNames[ordinal-1]
	}
	if h.headerNames != nil && ordinal > len(h.headerNames) {
		h.log.Debug("column rejected", "ordinal", ordinal, "err", ErrColumnCountMismatch)
		return fmt.Errorf("%w : ordinal %d of %d", ErrColumnCountMismatch, ordinal, len(h.headerNames))
	}
	if colName != "" {
		for pair := h.columns.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Key != ordinal && strings.EqualFold(pair.Value.Name, colName) {
				h.log.Debug("column rejected", "ordinal", ordinal, "name", colName, "err", ErrDuplicateColumn)
				return fmt.Errorf("%w : %q at ordinals %d and %d", ErrDuplicateColumn, colName, pair.Key, ordinal)
			}
		}
	}
	if isTemporal(typ) {
		precision = temporalTextPrecision
	}
	c := &Column{
		Ordinal:   ordinal,
		Name:      colName,
		Type:      redirect(typ),
		Precision: precision,
		Scale:     scale,
		Format:    layout,
	}
	h.columns.Set(ordinal, c)
	h.log.Debug("column registered", "ordinal", ordinal, "name", colName, "type", c.Type.String())
	return nil
}

// Lookup returns the metadata registered at ordinal. Absent ordinals are
// not an error; the corresponding field is simply never coerced.
func (h *Hod) Lookup(ordinal int) (Column, bool) {
	c, ok := h.columns.Get(ordinal)
	if !ok {
		return Column{}, false
	}
	return *c, true
}

// Ordinals returns the registered ordinals in ascending order.
func (h *Hod) Ordinals() []int {
	ords := make([]int, 0, h.columns.Len())
	for pair := h.columns.Oldest(); pair != nil; pair = pair.Next() {
		ords = append(ords, pair.Key)
	}
	slices.Sort(ords)
	return ords
}

// Names returns the registered columns' display names in ascending ordinal
// order.
func (h *Hod) Names() []string {
	ords := h.Ordinals()
	names := make([]string, len(ords))
	for i, ord := range ords {
		c, _ := h.columns.Get(ord)
		names[i] = c.FieldName()
	}
	return names
}

// Len returns the number of registered columns.
func (h *Hod) Len() int { return h.columns.Len() }

// HeaderNames returns the header-derived column name list, if one was
// injected.
func (h *Hod) HeaderNames() []string { return h.headerNames }

// SetHeaderNames injects the header-derived column name list. It must be
// called before the first AddColumn call for name defaulting and ordinal
// range checks to see it.
func (h *Hod) SetHeaderNames(names []string) { h.headerNames = names }

// SetTimeFormat sets the session-wide default layout for offset-aware time
// columns. It may be set before or during a session.
func (h *Hod) SetTimeFormat(layout string) { h.timeFormat = layout }

// SetTimestampFormat sets the session-wide default layout for offset-aware
// timestamp columns. It may be set before or during a session.
func (h *Hod) SetTimestampFormat(layout string) { h.timestampFormat = layout }

// Project narrows a coerced row to the registered columns in ascending
// ordinal order, the shape bulk-load sinks consume.
func (h *Hod) Project(row []any) []any {
	ords := h.Ordinals()
	out := make([]any, len(ords))
	for i, ord := range ords {
		if ord-1 < len(row) {
			out[i] = row[ord-1]
		}
	}
	return out
}
