// Package export serializes a spreadsheet (title, headers, rows) into
// downloadable files: xlsx, csv, txt and docx.
//
// Export is a pure function of its inputs. It builds its own copies of the
// rows it writes and never modifies the caller's slices.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

// Format identifies an output file type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"
	FormatDOCX Format = "docx"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatXLSX, FormatCSV, FormatTXT, FormatDOCX}

var (
	// ErrUnsupportedFormat is returned for any format outside Formats.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrNoColumns is returned by merged-column exports of a sheet without
	// headers.
	ErrNoColumns = errors.New("no columns to export")
)

// ParseFormat maps a user supplied format name (case-insensitive, optional
// leading dot) to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	switch f {
	case FormatXLSX, FormatCSV, FormatTXT, FormatDOCX:
		return true
	}
	return false
}

// MIMEType returns the content type served for f.
func (f Format) MIMEType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatCSV:
		return "text/csv;charset=utf-8"
	case FormatTXT:
		return "text/plain;charset=utf-8"
	}
	return "application/octet-stream"
}

// Options selects the export projection.
type Options struct {
	// OnlyMergedColumn exports a single column: the one named MergedHeader
	// when present, otherwise the last column.
	OnlyMergedColumn bool
	MergedHeader     string
}

// File is a finished export ready to be saved or downloaded.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// layout is the format independent shape of an export.
type layout struct {
	heading string      // docx heading paragraph
	lead    []sheet.Row // rows written before the table in flat formats
	table   []sheet.Row // header row followed by data rows
}

func (l layout) flat() []sheet.Row {
	out := make([]sheet.Row, 0, len(l.lead)+len(l.table))
	out = append(out, l.lead...)
	return append(out, l.table...)
}

// Export serializes the sheet in the requested format.
//
// In full mode the output holds a title row, the headers and every data
// row; docx renders the title as a heading above the table instead. In
// merged mode the output holds only the target column's header and values.
func Export(title string, headers []string, data []sheet.Row, format Format, opts Options) (*File, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}

	var (
		l    layout
		base string
	)
	if opts.OnlyMergedColumn {
		if len(headers) == 0 {
			return nil, ErrNoColumns
		}
		idx := targetColumn(headers, opts.MergedHeader)
		l = mergedLayout(headers[idx], idx, data)
		base = MergedFileBase(title, headers[idx])
	} else {
		l = fullLayout(title, headers, data)
		base = FileBase(title)
	}

	var (
		b   []byte
		err error
	)
	switch format {
	case FormatXLSX:
		b, err = encodeXLSX(l.flat())
	case FormatCSV:
		b = encodeCSV(l.flat())
	case FormatTXT:
		b = encodeTXT(l.flat())
	case FormatDOCX:
		b, err = encodeDOCX(l.heading, l.table)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	return &File{
		Name:     base + "." + string(format),
		MIMEType: format.MIMEType(),
		Data:     b,
	}, nil
}

// targetColumn resolves the merged-mode column: the first header equal to
// name, else the last column.
func targetColumn(headers []string, name string) int {
	if name != "" {
		for i, h := range headers {
			if h == name {
				return i
			}
		}
	}
	return len(headers) - 1
}

func fullLayout(title string, headers []string, data []sheet.Row) layout {
	table := make([]sheet.Row, 0, len(data)+1)
	table = append(table, sheet.RowOf(headers...))
	table = append(table, sheet.CloneRows(data)...)
	return layout{
		heading: title,
		lead:    []sheet.Row{sheet.RowOf(title)},
		table:   table,
	}
}

func mergedLayout(header string, idx int, data []sheet.Row) layout {
	table := make([]sheet.Row, 0, len(data)+1)
	table = append(table, sheet.RowOf(header))
	for _, row := range data {
		var c sheet.Cell
		if idx < len(row) {
			c = row[idx]
		}
		table = append(table, sheet.Row{c})
	}
	return layout{heading: header, table: table}
}
