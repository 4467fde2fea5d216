package sheet

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// DefaultMergedHeader names a concatenated column when no name is given.
const DefaultMergedHeader = "Merged"

// MergeSeparator joins the values of concatenated columns.
const MergeSeparator = " - "

// State is the editable in-memory spreadsheet: title, headers, data rows,
// the original rows captured at ingestion, per-row edit flags, the undo
// history and the single pre-concatenation snapshot.
//
// Rows and columns are identified by position only. Every snapshot is a
// deep copy; live rows are never shared with history.
type State struct {
	loaded bool

	title   string
	headers []string
	data    []Row

	originalHeaders []string
	originalData    []Row

	editable  []bool
	history   History
	preConcat *Snapshot
}

// View is a detached copy of the visible state.
type View struct {
	Title              string   `json:"title"`
	Headers            []string `json:"headers"`
	Data               []Row    `json:"data"`
	Editable           []bool   `json:"editable"`
	HistoryDepth       int      `json:"historyDepth"`
	CanUndoConcatenate bool     `json:"canUndoConcatenate"`
}

// New builds a State from an extraction result.
func New(ex Extracted) *State {
	s := &State{}
	s.Load(ex)
	return s
}

// Load replaces the whole state with ex. History, the pre-concatenation
// snapshot and row flags start empty.
func (s *State) Load(ex Extracted) {
	*s = State{
		loaded:          true,
		title:           ex.Title,
		headers:         cloneStrings(ex.Headers),
		data:            cloneRows(ex.Data),
		originalHeaders: cloneStrings(ex.Headers),
		originalData:    cloneRows(ex.OriginalData),
		editable:        make([]bool, len(ex.Data)),
	}
}

// Loaded reports whether a sheet is present.
func (s *State) Loaded() bool { return s.loaded }

// Title returns the sheet title.
func (s *State) Title() string { return s.title }

// Headers returns a copy of the current headers.
func (s *State) Headers() []string { return cloneStrings(s.headers) }

// Data returns a deep copy of the current rows.
func (s *State) Data() []Row { return cloneRows(s.data) }

// OriginalData returns a deep copy of the rows captured at ingestion.
func (s *State) OriginalData() []Row { return cloneRows(s.originalData) }

// HistoryLen returns the number of undoable edits and replacements.
func (s *State) HistoryLen() int { return s.history.Len() }

// CanUndoConcatenate reports whether a pre-concatenation snapshot exists.
func (s *State) CanUndoConcatenate() bool { return s.preConcat != nil }

// Snapshot returns a deep copy of the current headers and data.
func (s *State) Snapshot() Snapshot { return takeSnapshot(s.headers, s.data) }

// View returns a detached copy of everything a client renders.
func (s *State) View() View {
	return View{
		Title:              s.title,
		Headers:            cloneStrings(s.headers),
		Data:               cloneRows(s.data),
		Editable:           slices.Clone(s.editableFlags()),
		HistoryDepth:       s.history.Len(),
		CanUndoConcatenate: s.preConcat != nil,
	}
}

// MoveColumn moves the column at from to position to, shifting the others.
// The same move is applied to every row.
func (s *State) MoveColumn(from, to int) error {
	if !s.loaded {
		return ErrNoDocument
	}
	n := len(s.headers)
	if err := checkIndex("move column", "column", from, n); err != nil {
		return err
	}
	if err := checkIndex("move column", "column", to, n); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	s.headers = move(s.headers, from, to)
	for i, row := range s.data {
		s.data[i] = move(padRow(row, n), from, to)
	}
	return nil
}

// MoveRow moves the row at from to position to. The row's edit flag moves
// with it.
func (s *State) MoveRow(from, to int) error {
	if !s.loaded {
		return ErrNoDocument
	}
	n := len(s.data)
	if err := checkIndex("move row", "row", from, n); err != nil {
		return err
	}
	if err := checkIndex("move row", "row", to, n); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	s.data = move(s.data, from, to)
	s.editable = move(s.editableFlags(), from, to)
	return nil
}

// EditCell stores value verbatim at (row, col). The previous headers and
// data are pushed onto the history first. Rows shorter than col are grown
// with empty cells.
func (s *State) EditCell(row, col int, value string) error {
	if !s.loaded {
		return ErrNoDocument
	}
	if err := checkIndex("edit cell", "row", row, len(s.data)); err != nil {
		return err
	}
	if err := checkIndex("edit cell", "column", col, len(s.headers)); err != nil {
		return err
	}

	s.history.Push(s.headers, s.data)

	r := padRow(s.data[row], col+1)
	r[col] = String(value)
	s.data[row] = r
	return nil
}

// SetRowEditable toggles the edit flag of a row.
func (s *State) SetRowEditable(row int, enabled bool) error {
	if !s.loaded {
		return ErrNoDocument
	}
	if err := checkIndex("set row editable", "row", row, len(s.data)); err != nil {
		return err
	}
	flags := s.editableFlags()
	flags[row] = enabled
	s.editable = flags
	return nil
}

// RowEditable reports the edit flag of a row. Unknown rows are not editable.
func (s *State) RowEditable(row int) bool {
	if row < 0 || row >= len(s.editable) {
		return false
	}
	return s.editable[row]
}

// EditableFlags returns a copy of the per-row edit flags.
func (s *State) EditableFlags() []bool {
	return slices.Clone(s.editableFlags())
}

// ConcatResult reports the header created by Concatenate.
type ConcatResult struct {
	Outcome
	Header string `json:"header,omitempty"`
}

// Concatenate appends a new trailing column whose value in every row is
// the text of the selected columns, in ascending column order, joined by
// MergeSeparator. Source columns are kept. The header name is made unique
// by appending " (n)".
//
// Every row is first fitted to the header width: short rows are padded
// with Empty and cells beyond the last header are dropped. Only the
// pre-concatenation snapshot keeps those extra cells.
//
// Fewer than two indices leave the state untouched. The state before the
// change is kept so that UndoConcatenate can restore it; only the most
// recent concatenation can be undone.
func (s *State) Concatenate(indices []int, name string) (ConcatResult, error) {
	if !s.loaded {
		return ConcatResult{}, ErrNoDocument
	}
	if len(indices) < 2 {
		return ConcatResult{Outcome: Outcome{Message: MsgTooFewColumns}}, nil
	}
	n := len(s.headers)
	for _, i := range indices {
		if err := checkIndex("concatenate", "column", i, n); err != nil {
			return ConcatResult{}, err
		}
	}

	snap := takeSnapshot(s.headers, s.data)
	s.preConcat = &snap

	sorted := slices.Clone(indices)
	sort.Ints(sorted)
	header := uniqueHeader(s.headers, name)

	data := make([]Row, len(s.data))
	parts := make([]string, len(sorted))
	for r, row := range s.data {
		base := make(Row, n, n+1)
		copy(base, row)
		for k, i := range sorted {
			parts[k] = base[i].Text()
		}
		data[r] = append(base, String(strings.Join(parts, MergeSeparator)))
	}

	s.headers = append(cloneStrings(s.headers), header)
	s.data = data
	s.editable = resizeFlags(s.editable, len(data))

	return ConcatResult{
		Outcome: Outcome{Applied: true, Message: MsgConcatenated},
		Header:  header,
	}, nil
}

// UndoConcatenate restores the state captured by the last Concatenate and
// forgets it.
func (s *State) UndoConcatenate() Outcome {
	if s.preConcat == nil {
		return Outcome{Message: MsgNothingToUndo}
	}
	snap := s.preConcat.clone()
	s.preConcat = nil
	s.headers = snap.Headers
	s.data = snap.Data
	s.editable = resizeFlags(s.editable, len(s.data))
	return Outcome{Applied: true, Message: MsgConcatUndone}
}

// MergedHeader returns the header a merged-column export should target: the
// only header added since the last concatenation snapshot, or else the last
// header.
func (s *State) MergedHeader() string {
	if len(s.headers) == 0 {
		return ""
	}
	if s.preConcat != nil {
		before := make(map[string]bool, len(s.preConcat.Headers))
		for _, h := range s.preConcat.Headers {
			before[h] = true
		}
		var added []string
		for _, h := range s.headers {
			if !before[h] {
				added = append(added, h)
			}
		}
		if len(added) == 1 {
			return added[0]
		}
	}
	return s.headers[len(s.headers)-1]
}

// Undo restores the headers and data saved by the most recent EditCell or
// ReplaceAll. Reorders and concatenations are not undone by it.
func (s *State) Undo() Outcome {
	snap, ok := s.history.Pop()
	if !ok {
		return Outcome{Message: MsgNothingToUndo}
	}
	s.headers = snap.Headers
	s.data = snap.Data
	s.editable = resizeFlags(s.editable, len(s.data))
	return Outcome{Applied: true, Message: MsgUndone}
}

// Revert restores the headers and rows captured at ingestion, before
// normalization and sorting. History and the concatenation snapshot are
// discarded.
func (s *State) Revert() (Outcome, error) {
	if !s.loaded {
		return Outcome{}, ErrNoDocument
	}
	s.headers = cloneStrings(s.originalHeaders)
	s.data = cloneRows(s.originalData)
	s.history.Clear()
	s.preConcat = nil
	s.editable = make([]bool, len(s.data))
	return Outcome{Applied: true, Message: MsgRevertedToOriginal}, nil
}

// Reset discards everything and returns to the no-file state.
func (s *State) Reset() {
	*s = State{}
}

func (s *State) editableFlags() []bool {
	if len(s.editable) != len(s.data) {
		s.editable = resizeFlags(s.editable, len(s.data))
	}
	return s.editable
}

func uniqueHeader(existing []string, name string) string {
	base := strings.TrimSpace(name)
	if base == "" {
		base = DefaultMergedHeader
	}
	taken := make(map[string]bool, len(existing))
	for _, h := range existing {
		taken[h] = true
	}
	candidate := base
	for n := 1; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s (%d)", base, n)
	}
	return candidate
}

// resizeFlags keeps existing flags by position; new entries are false.
func resizeFlags(flags []bool, n int) []bool {
	out := make([]bool, n)
	copy(out, flags)
	return out
}

// FitRows returns copies of rows with every row padded with Empty or
// truncated to exactly n cells.
func FitRows(rows []Row, n int) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		row := make(Row, n)
		copy(row, r)
		out[i] = row
	}
	return out
}

func padRow(r Row, n int) Row {
	if len(r) >= n {
		return r
	}
	out := make(Row, n)
	copy(out, r)
	return out
}

func move[T any](s []T, from, to int) []T {
	out := slices.Clone(s)
	v := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, v)
}
