package export

import (
	"strings"

	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

// encodeCSV joins cells with commas and rows with "\n". Values are written
// verbatim without quoting, so a cell holding a comma reads back as two
// fields.
func encodeCSV(rows []sheet.Row) []byte {
	return joinRows(rows, ",")
}

// encodeTXT joins cells with tabs and rows with "\n". Values are written
// verbatim.
func encodeTXT(rows []sheet.Row) []byte {
	return joinRows(rows, "\t")
}

func joinRows(rows []sheet.Row, sep string) []byte {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row.Texts(), sep)
	}
	return []byte(strings.Join(lines, "\n"))
}
