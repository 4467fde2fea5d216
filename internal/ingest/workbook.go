package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

var errNoSheets = errors.New("workbook has no sheets")

// parseWorkbook reads the first sheet using raw (unformatted) values.
// Numeric cells become Number cells and booleans become "TRUE"/"FALSE".
func parseWorkbook(ctx context.Context, r io.Reader) ([][]sheet.Cell, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errNoSheets
	}
	name := sheets[0]

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	out := make([][]sheet.Cell, len(raw))
	for r, values := range raw {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make([]sheet.Cell, len(values))
		for c, v := range values {
			if v == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(name, axis)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", axis, err)
			}
			row[c] = workbookCell(typ, v)
		}
		out[r] = row
	}
	return out, nil
}

// workbookCell converts a raw value. Cells without an explicit type are
// numbers when their raw value parses as one; that is how numeric cells
// are usually stored.
func workbookCell(typ excelize.CellType, v string) sheet.Cell {
	switch typ {
	case excelize.CellTypeBool:
		switch v {
		case "1", "true", "TRUE":
			return sheet.String("TRUE")
		case "0", "false", "FALSE":
			return sheet.String("FALSE")
		}
		return sheet.String(v)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return sheet.Number(f)
		}
	}
	return sheet.String(v)
}
