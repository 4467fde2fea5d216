package sheet

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is matched by every RangeError.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrNoDocument is returned by operations on a State with no loaded sheet.
var ErrNoDocument = errors.New("no spreadsheet loaded")

// RangeError reports a row or column index outside the current table.
type RangeError struct {
	Op    string // "move column", "edit cell", ...
	Axis  string // "row" or "column"
	Index int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s index %d out of range [0,%d)", e.Op, e.Axis, e.Index, e.Len)
}

// Is makes errors.Is(err, ErrIndexOutOfRange) succeed.
func (e *RangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

func checkIndex(op, axis string, i, n int) error {
	if i < 0 || i >= n {
		return &RangeError{Op: op, Axis: axis, Index: i, Len: n}
	}
	return nil
}

// Outcome describes the effect of an operation whose precondition may be
// unmet through normal interaction (nothing to undo, too few columns).
// Such cases are reported here rather than as errors.
type Outcome struct {
	Applied bool   `json:"applied"`
	Message string `json:"message"`
}

const (
	MsgNothingToUndo      = "nothing to undo"
	MsgUndone             = "change undone"
	MsgConcatUndone       = "concatenation undone"
	MsgTooFewColumns      = "select at least two columns to concatenate"
	MsgConcatenated       = "columns concatenated"
	MsgRevertedToOriginal = "reverted to original data"
)
