package sheet

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortRows returns a stably sorted copy of rows ordered by the text of the
// first column. Comparison is numeric-aware ("ITEM2" before "ITEM10") and
// ignores case and accents. Rows without a first column sort as "".
func SortRows(rows []Row) []Row {
	out := cloneRows(rows)

	// A Collator is not safe for concurrent use.
	col := collate.New(language.Und, collate.Loose, collate.Numeric)
	keys := make([]string, len(out))
	for i, r := range out {
		keys[i] = sortKey(r)
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return col.CompareString(keys[idx[a]], keys[idx[b]]) < 0
	})

	sorted := make([]Row, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

func sortKey(r Row) string {
	if len(r) == 0 {
		return ""
	}
	return r[0].Text()
}
