// Package sheet provides the in-memory spreadsheet engine: ingestion helpers
// (row extraction, text normalization, row sorting) and the mutable State
// with its editing, search/replace and undo operations.
//
// The package has no I/O and no transport dependencies. Callers that share a
// State between goroutines must serialize access themselves.
package sheet

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Cell.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
)

// Cell is a single spreadsheet value: empty, a string or a number.
// The zero value is an empty cell.
type Cell struct {
	kind Kind
	str  string
	num  float64
}

// String returns a string cell. The empty string yields an empty cell.
func String(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{kind: KindString, str: s}
}

// Number returns a numeric cell.
func Number(f float64) Cell {
	return Cell{kind: KindNumber, num: f}
}

// Empty returns an empty cell.
func Empty() Cell { return Cell{} }

// Kind reports which variant c holds.
func (c Cell) Kind() Kind { return c.kind }

// IsEmpty reports whether c holds no value.
func (c Cell) IsEmpty() bool { return c.kind == KindEmpty }

// Float returns the numeric value and whether c is a number.
func (c Cell) Float() (float64, bool) {
	return c.num, c.kind == KindNumber
}

// Text returns the display form of the cell.
func (c Cell) Text() string {
	switch c.kind {
	case KindString:
		return c.str
	case KindNumber:
		return formatNumber(c.num)
	default:
		return ""
	}
}

// IsBlank reports whether the display form is empty after trimming.
func (c Cell) IsBlank() bool {
	return strings.TrimSpace(c.Text()) == ""
}

// String implements fmt.Stringer.
func (c Cell) String() string { return c.Text() }

func formatNumber(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MarshalJSON encodes strings as JSON strings, numbers as JSON numbers and
// empty cells as "".
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.kind == KindNumber && !math.IsInf(c.num, 0) && !math.IsNaN(c.num) {
		return []byte(formatNumber(c.num)), nil
	}
	return json.Marshal(c.Text())
}

// UnmarshalJSON accepts null, strings, numbers and booleans.
func (c *Cell) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	cell, err := FromValue(v)
	if err != nil {
		return err
	}
	*c = cell
	return nil
}

// FromValue converts a loosely typed value (as decoded from JSON or produced
// by a parser) into a Cell.
func FromValue(v any) (Cell, error) {
	switch val := v.(type) {
	case nil:
		return Cell{}, nil
	case Cell:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return String(strings.ToUpper(strconv.FormatBool(val))), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(float64(val)), nil
	case int:
		return Number(float64(val)), nil
	case int64:
		return Number(float64(val)), nil
	case int32:
		return Number(float64(val)), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return String(val.String()), nil
		}
		return Number(f), nil
	default:
		return Cell{}, fmt.Errorf("unsupported cell value of type %T", v)
	}
}

// Row is an ordered sequence of cells aligned with the headers by position.
type Row []Cell

// Texts returns the display form of every cell in the row.
func (r Row) Texts() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Text()
	}
	return out
}

// RowOf builds a row of string cells.
func RowOf(values ...string) Row {
	r := make(Row, len(values))
	for i, v := range values {
		r[i] = String(v)
	}
	return r
}

func cloneRow(r Row) Row {
	if r == nil {
		return Row{}
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = cloneRow(r)
	}
	return out
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// CloneRows returns a deep copy of rows.
func CloneRows(rows []Row) []Row { return cloneRows(rows) }
