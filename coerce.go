package hod

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
)

var (
	errValueOutOfRange  = errors.New("value out of range")
	errNotNumeric       = errors.New("not a numeric or boolean literal")
	errExponentTooLarge = errors.New("exponent out of range")
)

// CoerceRow converts one already-split row of raw text fields into a typed
// row. The output holds one slot per field present in the source row; only
// ordinals registered in the session are coerced, the rest stay nil. The
// first error encountered aborts the row: partial rows are never returned.
// The engine keeps no state across rows.
func (h *Hod) CoerceRow(fields []string) ([]any, error) {
	row := make([]any, len(fields))
	for _, ord := range h.Ordinals() {
		col, _ := h.columns.Get(ord)

		// The registered column has no corresponding field in this row.
		if len(fields) < ord {
			err := fmt.Errorf("%w : ordinal %d, row has %d fields", ErrColumnNotFound, ord, len(fields))
			h.log.Debug("row rejected", "ordinal", ord, "err", err)
			return nil, err
		}

		// Source header has more columns than the current row.
		if h.headerNames != nil && len(h.headerNames) > len(fields) {
			err := fmt.Errorf("%w : header has %d columns, row has %d fields", ErrSchemaMismatch, len(h.headerNames), len(fields))
			h.log.Debug("row rejected", "err", err)
			return nil, err
		}

		raw, err := fieldAt(fields, ord)
		if err != nil {
			h.log.Debug("row rejected", "ordinal", ord, "err", err)
			return nil, err
		}

		// Empty field, not merely absent: the slot is null and no
		// type-specific parsing is attempted.
		if len(raw) == 0 {
			row[ord-1] = nil
			continue
		}

		v, err := h.convertField(col, raw)
		if err != nil {
			h.log.Debug("row rejected", "ordinal", ord, "type", col.Type.String(), "err", err)
			return nil, err
		}
		row[ord-1] = v
	}
	return row, nil
}

// fieldAt guards the raw field access. The shape checks in CoerceRow make
// an out-of-range index unreachable, but a fault here must surface as a
// schema mismatch rather than a panic.
func fieldAt(fields []string, ordinal int) (string, error) {
	if ordinal-1 < 0 || ordinal-1 >= len(fields) {
		return "", fmt.Errorf("%w : field index %d out of range", ErrSchemaMismatch, ordinal-1)
	}
	return fields[ordinal-1], nil
}

func (h *Hod) convertField(c *Column, raw string) (any, error) {
	switch c.Type {
	case TypeTinyInt:
		n, err := truncToInt(raw, math.MinInt8, math.MaxInt8)
		if err != nil {
			return nil, &ConversionError{Value: raw, Type: c.Type, err: err}
		}
		return int8(n), nil

	case TypeSmallInt:
		n, err := truncToInt(raw, math.MinInt16, math.MaxInt16)
		if err != nil {
			return nil, &ConversionError{Value: raw, Type: c.Type, err: err}
		}
		return int16(n), nil

	case TypeInt:
		n, err := truncToInt(raw, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, &ConversionError{Value: raw, Type: c.Type, err: err}
		}
		return int32(n), nil

	case TypeBigInt:
		s := strings.TrimSpace(raw)
		un, scale, err := parseDecimal(s)
		if err != nil {
			return nil, &ConversionError{Value: s, Type: c.Type, err: err}
		}
		// Truncate fractional digits, round-down, then require an exact
		// 64-bit fit.
		un = rescaleTrunc(un, scale, 0)
		if !un.IsInt64() {
			return nil, &ConversionError{Value: s, Type: c.Type, err: errValueOutOfRange}
		}
		return un.Int64(), nil

	case TypeDecimal, TypeNumeric:
		s := strings.TrimSpace(raw)
		un, scale, err := parseDecimal(s)
		if err != nil {
			return nil, &ConversionError{Value: s, Type: c.Type, err: err}
		}
		un = rescaleHalfUp(un, scale, int32(c.Scale))
		if un.BitLen() > 127 {
			return nil, &ConversionError{Value: s, Type: c.Type, err: errValueOutOfRange}
		}
		return Decimal{num: decimal128.FromBigInt(un), scale: int32(c.Scale)}, nil

	case TypeBit:
		// Numeric parse first: zero is false, any other numeric value is
		// true. Fall back to literal true/false text.
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f != 0, nil
		}
		switch strings.ToLower(raw) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, &ConversionError{Value: raw, Type: c.Type, err: errNotNumeric}

	case TypeReal:
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, &ConversionError{Value: raw, Type: c.Type, err: err}
		}
		return float32(f), nil

	case TypeDouble:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ConversionError{Value: raw, Type: c.Type, err: err}
		}
		return f, nil

	case TypeBinary, TypeVarBinary, TypeLongVarBinary:
		// The value may or may not carry a 0x prefix; strip it and keep the
		// remainder as the payload text. No hex validation at this layer.
		s := strings.TrimSpace(raw)
		if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
			s = s[2:]
		}
		return s, nil

	case TypeTimeTZ:
		layout := c.Format
		if layout == "" {
			layout = h.timeFormat
		}
		if layout == "" {
			layout = OffsetTimeLayout
		}
		t, err := time.Parse(layout, raw)
		if err != nil {
			return nil, &ConversionError{Value: raw, Type: c.Type, err: err}
		}
		return t, nil

	case TypeTimestampTZ:
		layout := c.Format
		if layout == "" {
			layout = h.timestampFormat
		}
		if layout == "" {
			layout = OffsetTimestampLayout
		}
		t, err := time.Parse(layout, raw)
		if err != nil {
			return nil, &ConversionError{Value: raw, Type: c.Type, err: err}
		}
		return t, nil

	case TypeNull:
		return nil, nil

	default:
		// Character types, and date/time/timestamp travelling as text: the
		// field is copied verbatim. Quotes and embedded delimiters are the
		// caller's responsibility upstream.
		return raw, nil
	}
}

// truncToInt parses s as a floating point number and truncates it toward
// zero, matching the destination's floor-on-insert behaviour for the 8, 16
// and 32-bit integer types.
func truncToInt(s string, min, max float64) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	t := math.Trunc(f)
	if math.IsNaN(t) || t < min || t > max {
		return 0, errValueOutOfRange
	}
	return int64(t), nil
}

var (
	big10  = big.NewInt(10)
	bigOne = big.NewInt(1)
)

// parseDecimal parses a decimal literal into an unscaled integer and a
// scale such that value = unscaled * 10^-scale. Exponent notation is
// accepted; the returned scale may be negative.
func parseDecimal(s string) (*big.Int, int32, error) {
	mant := s
	exp := 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		var err error
		exp, err = strconv.Atoi(s[i+1:])
		if err != nil {
			return nil, 0, fmt.Errorf("invalid decimal literal %q", s)
		}
		mant = s[:i]
	}
	if exp > 1000 || exp < -1000 {
		return nil, 0, errExponentTooLarge
	}

	neg := false
	switch {
	case strings.HasPrefix(mant, "+"):
		mant = mant[1:]
	case strings.HasPrefix(mant, "-"):
		neg = true
		mant = mant[1:]
	}

	intPart, fracPart, _ := strings.Cut(mant, ".")
	if len(intPart) == 0 && len(fracPart) == 0 {
		return nil, 0, fmt.Errorf("invalid decimal literal %q", s)
	}
	digits := intPart + fracPart
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil, 0, fmt.Errorf("invalid decimal literal %q", s)
		}
	}

	un, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, 0, fmt.Errorf("invalid decimal literal %q", s)
	}
	if neg {
		un.Neg(un)
	}
	return un, int32(len(fracPart) - exp), nil
}

func pow10(n int32) *big.Int {
	return new(big.Int).Exp(big10, big.NewInt(int64(n)), nil)
}

// rescaleTrunc adjusts unscaled from scale to target, discarding dropped
// fractional digits without rounding.
func rescaleTrunc(un *big.Int, scale, target int32) *big.Int {
	diff := target - scale
	switch {
	case diff == 0:
		return un
	case diff > 0:
		return new(big.Int).Mul(un, pow10(diff))
	default:
		return new(big.Int).Quo(un, pow10(-diff))
	}
}

// rescaleHalfUp adjusts unscaled from scale to target, rounding the
// half-way case away from zero when fractional digits are dropped.
func rescaleHalfUp(un *big.Int, scale, target int32) *big.Int {
	diff := target - scale
	switch {
	case diff == 0:
		return un
	case diff > 0:
		return new(big.Int).Mul(un, pow10(diff))
	}
	p := pow10(-diff)
	q, r := new(big.Int).QuoRem(un, p, new(big.Int))
	r.Abs(r).Lsh(r, 1)
	if r.Cmp(p) >= 0 {
		if un.Sign() < 0 {
			q.Sub(q, bigOne)
		} else {
			q.Add(q, bigOne)
		}
	}
	return q
}
