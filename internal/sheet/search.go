package sheet

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FindOptions controls matching for FindAll and ReplaceAll.
type FindOptions struct {
	CaseSensitive bool `json:"caseSensitive"`
	// Exact requires the whole cell to equal the term; otherwise the term
	// may appear anywhere in the cell.
	Exact bool `json:"exact"`
	// Column restricts matching to one column when set.
	Column *int `json:"column,omitempty"`
}

// Match locates a cell whose text matched a search.
type Match struct {
	Row   int    `json:"rowIndex"`
	Col   int    `json:"colIndex"`
	Value string `json:"value"`
}

// FindAll returns every matching cell in row-major order. An empty term
// matches nothing.
func (s *State) FindAll(term string, opts FindOptions) []Match {
	matches := []Match{}
	if term == "" {
		return matches
	}
	for r, row := range s.data {
		for c, cell := range row {
			if skipCell(cell, c, opts) {
				continue
			}
			text := cell.Text()
			if cellMatches(text, term, opts) {
				matches = append(matches, Match{Row: r, Col: c, Value: text})
			}
		}
	}
	return matches
}

// ReplaceAll replaces matches of find with with and returns the number of
// occurrences replaced. In exact mode a matching cell is replaced as a
// whole; otherwise every occurrence inside each cell is replaced.
//
// A history entry is pushed before scanning, even when nothing ends up
// being replaced. An empty find term is a no-op.
func (s *State) ReplaceAll(find, with string, opts FindOptions) (int, error) {
	if !s.loaded {
		return 0, ErrNoDocument
	}
	if find == "" {
		return 0, nil
	}

	s.history.Push(s.headers, s.data)

	count := 0
	for _, row := range s.data {
		for c, cell := range row {
			if skipCell(cell, c, opts) {
				continue
			}
			text := cell.Text()

			if opts.Exact {
				if equalText(text, find, opts.CaseSensitive) {
					row[c] = String(with)
					count++
				}
				continue
			}

			var replaced string
			var n int
			if opts.CaseSensitive {
				n = strings.Count(text, find)
				if n > 0 {
					replaced = strings.ReplaceAll(text, find, with)
				}
			} else {
				replaced, n = replaceFold(text, find, with)
			}
			if n > 0 {
				row[c] = String(replaced)
				count += n
			}
		}
	}
	return count, nil
}

func skipCell(c Cell, col int, opts FindOptions) bool {
	if opts.Column != nil && col != *opts.Column {
		return true
	}
	return c.IsEmpty()
}

func cellMatches(text, term string, opts FindOptions) bool {
	if opts.Exact {
		return equalText(text, term, opts.CaseSensitive)
	}
	if opts.CaseSensitive {
		return strings.Contains(text, term)
	}
	return indexFold([]rune(text), []rune(term), 0) >= 0
}

func equalText(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// replaceFold replaces every non-overlapping, case-insensitive occurrence
// of old in s, scanning left to right over runes.
func replaceFold(s, old, repl string) (string, int) {
	src := []rune(s)
	pat := []rune(old)

	var b strings.Builder
	b.Grow(len(s))
	n := 0
	pos := 0
	for {
		i := indexFold(src, pat, pos)
		if i < 0 {
			break
		}
		for _, r := range src[pos:i] {
			b.WriteRune(r)
		}
		b.WriteString(repl)
		pos = i + len(pat)
		n++
	}
	if n == 0 {
		return s, 0
	}
	for _, r := range src[pos:] {
		b.WriteRune(r)
	}
	return b.String(), n
}

// indexFold returns the first rune index >= from where pat matches src
// under simple case folding, or -1.
func indexFold(src, pat []rune, from int) int {
	if len(pat) == 0 {
		return -1
	}
	for i := from; i+len(pat) <= len(src); i++ {
		if runesEqualFold(src[i:i+len(pat)], pat) {
			return i
		}
	}
	return -1
}

func runesEqualFold(a, b []rune) bool {
	for i := range a {
		if !runeEqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func runeEqualFold(a, b rune) bool {
	if a == b {
		return true
	}
	if a == utf8.RuneError || b == utf8.RuneError {
		return false
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
