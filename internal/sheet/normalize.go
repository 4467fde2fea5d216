package sheet

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transformers carry state, so each call takes its own chain from the pool.
var normalizePool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
			cases.Upper(language.Und),
		)
	},
}

// NormalizeText trims s, collapses internal whitespace runs to a single
// space, strips diacritical marks and upper-cases the result.
//
//	NormalizeText("  são   paulo ") == "SAO PAULO"
func NormalizeText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}

	t := normalizePool.Get().(transform.Transformer)
	out, _, err := transform.String(t, s)
	t.Reset()
	normalizePool.Put(t)
	if err != nil {
		return strings.ToUpper(s)
	}
	return out
}

// NormalizeCell normalizes string cells. Numbers and empty cells pass
// through unchanged.
func NormalizeCell(c Cell) Cell {
	if c.kind != KindString {
		return c
	}
	return String(NormalizeText(c.str))
}

// NormalizeRows returns new rows with every cell normalized.
func NormalizeRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		nr := make(Row, len(row))
		for j, c := range row {
			nr[j] = NormalizeCell(c)
		}
		out[i] = nr
	}
	return out
}
