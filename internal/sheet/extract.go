package sheet

// DefaultTitle is used when the title cell is missing or empty.
const DefaultTitle = "Untitled"

// Extracted is the result of splitting a parsed sheet into title, headers
// and data rows.
type Extracted struct {
	Title        string
	Headers      []string
	Data         []Row
	OriginalData []Row
}

// Extract applies the row/column convention to raw parsed rows: row 0 holds
// the title in its first cell, row 1 holds the headers and the remaining
// rows hold data.
//
// Data rows are padded or truncated to the header width, fully blank rows
// are dropped, and what remains is captured as OriginalData before being
// normalized and sorted into Data.
//
// With fewer than three raw rows nothing beyond the split is applied.
func Extract(raw [][]Cell) Extracted {
	title := DefaultTitle
	if len(raw) > 0 && len(raw[0]) > 0 {
		if t := raw[0][0].Text(); t != "" {
			title = t
		}
	}

	headers := []string{}
	if len(raw) > 1 {
		headers = make([]string, len(raw[1]))
		for i, c := range raw[1] {
			headers[i] = c.Text()
		}
	}

	if len(raw) < 3 {
		return Extracted{
			Title:        title,
			Headers:      headers,
			Data:         []Row{},
			OriginalData: []Row{},
		}
	}

	filtered := make([]Row, 0, len(raw)-2)
	for _, src := range raw[2:] {
		row := make(Row, len(headers))
		copy(row, src)
		if isBlankRow(row) {
			continue
		}
		filtered = append(filtered, row)
	}

	return Extracted{
		Title:        title,
		Headers:      headers,
		Data:         SortRows(NormalizeRows(filtered)),
		OriginalData: filtered,
	}
}

func isBlankRow(r Row) bool {
	for _, c := range r {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}
