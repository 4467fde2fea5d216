package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

// parseDelimited reads delimited text. A UTF-8 or UTF-16 byte order mark
// selects the decoding and is dropped; without one the input is read as
// UTF-8 with invalid sequences replaced by U+FFFD.
//
// Every value becomes a string cell so that leading zeros and codes that
// look numeric survive unchanged.
func parseDelimited(ctx context.Context, r io.Reader, comma rune) ([][]sheet.Cell, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var out [][]sheet.Cell
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		row := make([]sheet.Cell, len(record))
		for i, v := range record {
			row[i] = sheet.String(v)
		}
		out = append(out, row)
	}
	return out, nil
}
