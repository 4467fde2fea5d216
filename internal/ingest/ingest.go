// Package ingest turns uploaded spreadsheet files into raw rows of cells and
// applies the title/header/data extraction convention to them.
//
// Supported inputs are Office Open XML workbooks (first sheet only) and
// delimited text. Formulas are not evaluated; cached values are used.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

// ErrUnsupportedFile is returned for file names whose extension has no
// parser.
var ErrUnsupportedFile = errors.New("unsupported file type")

// ParseError wraps any failure to read a file.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Kind is the parser selected for a file.
type Kind int

const (
	KindUnknown Kind = iota
	KindWorkbook
	KindCSV
	KindTabbed
)

// DetectKind selects a parser from the file extension.
func DetectKind(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return KindWorkbook
	case ".csv":
		return KindCSV
	case ".txt", ".tsv":
		return KindTabbed
	default:
		return KindUnknown
	}
}

// Supported reports whether name has a parser.
func Supported(name string) bool {
	return DetectKind(name) != KindUnknown
}

// Parse reads every row of the file as cells. Rows keep their own length;
// no padding is applied here.
func Parse(ctx context.Context, name string, r io.Reader) ([][]sheet.Cell, error) {
	var (
		rows [][]sheet.Cell
		err  error
	)
	switch DetectKind(name) {
	case KindWorkbook:
		rows, err = parseWorkbook(ctx, r)
	case KindCSV:
		rows, err = parseDelimited(ctx, r, ',')
	case KindTabbed:
		rows, err = parseDelimited(ctx, r, '\t')
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFile, filepath.Ext(name))
	}
	if err != nil {
		return nil, &ParseError{File: filepath.Base(name), Err: err}
	}
	return rows, nil
}

// Load parses the file and extracts title, headers and data rows.
func Load(ctx context.Context, name string, r io.Reader) (sheet.Extracted, error) {
	rows, err := Parse(ctx, name, r)
	if err != nil {
		return sheet.Extracted{}, err
	}
	return sheet.Extract(rows), nil
}
