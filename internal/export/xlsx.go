package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

const xlsxSheet = "Sheet1"

// encodeXLSX writes rows into the first sheet of a new workbook. Numeric
// cells stay numeric; empty cells are left unset.
func encodeXLSX(rows []sheet.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for r, row := range rows {
		values := make([]any, len(row))
		for c, cell := range row {
			values[c] = xlsxValue(cell)
		}
		axis, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(xlsxSheet, axis, &values); err != nil {
			return nil, fmt.Errorf("row %d: %w", r+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func xlsxValue(c sheet.Cell) any {
	switch c.Kind() {
	case sheet.KindNumber:
		f, _ := c.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return c.Text()
		}
		return f
	case sheet.KindString:
		return c.Text()
	default:
		return nil
	}
}
