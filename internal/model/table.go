package model

import "strings"

// Filing identifies the regulatory submission a table was extracted from.
type Filing struct {
	Ticker       string `json:"ticker"`
	CIK          string `json:"cik,omitempty"`
	FormType     string `json:"form_type"`
	FiscalPeriod string `json:"fiscal_period,omitempty"`
}

// Table is one extracted statement fragment: rows of string cells with an
// optional header row carrying the period labels. Tables are built once by
// the filing fetcher and never mutated by the engine.
type Table struct {
	Filing    Filing     `json:"filing"`
	Rows      [][]string `json:"rows"`
	HeaderRow int        `json:"header_row"` // -1 when no header row was detected
}

// NewTable builds a Table from raw extracted rows. Ragged rows are padded to
// the widest row, cells are trimmed, and fully empty rows and trailing empty
// columns are pruned so downstream passes see a rectangular grid.
func NewTable(filing Filing, rows [][]string, headerRow int) Table {
	cleaned := make([][]string, 0, len(rows))
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	removed := 0
	for i, row := range rows {
		padded := make([]string, width)
		empty := true
		for j := 0; j < width; j++ {
			if j < len(row) {
				padded[j] = cleanCell(row[j])
			}
			if padded[j] != "" {
				empty = false
			}
		}
		if empty {
			if headerRow > i-removed {
				headerRow--
			}
			removed++
			continue
		}
		cleaned = append(cleaned, padded)
	}

	cleaned = dropEmptyColumns(cleaned)

	if headerRow >= len(cleaned) {
		headerRow = -1
	}

	return Table{Filing: filing, Rows: cleaned, HeaderRow: headerRow}
}

// Empty reports whether the table carries no usable cells.
func (t Table) Empty() bool {
	return len(t.Rows) == 0 || len(t.Rows[0]) == 0
}

// Columns returns the column count (0 for an empty table).
func (t Table) Columns() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// cleanCell trims a cell and normalizes non-breaking spaces and inner runs
// of whitespace, matching how filing HTML collapses when extracted.
func cleanCell(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// dropEmptyColumns removes columns that are empty in every row.
func dropEmptyColumns(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	width := len(rows[0])
	keep := make([]bool, width)
	kept := 0
	for j := 0; j < width; j++ {
		for _, row := range rows {
			if row[j] != "" {
				keep[j] = true
				kept++
				break
			}
		}
	}
	if kept == width {
		return rows
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, 0, kept)
		for j, ok := range keep {
			if ok {
				out[i] = append(out[i], row[j])
			}
		}
	}
	return out
}
