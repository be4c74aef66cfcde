// Package fetcher loads extracted filing tables from XLSX workbooks. One
// workbook holds every table extracted from a company's filings, one sheet
// per filing document, with blank rows separating the tables on a sheet.
package fetcher

import (
	"regexp"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/statements-cli/internal/model"
)

// headerYearRe marks a header candidate: any cell carrying a 4-digit year.
var headerYearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// headerSearchDepth caps how far into a block the header row may sit.
const headerSearchDepth = 5

// ReadWorkbook parses every sheet of a workbook into tables. Blocks are
// split on fully blank rows; each block becomes one Table tagged with the
// filing metadata. Blocks that clean down to nothing are dropped here, not
// reported, since they are separators rather than rejected tables.
func ReadWorkbook(path string, filing model.Filing) ([]model.Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: open workbook")
	}

	var tables []model.Table
	for _, sheet := range f.Sheets {
		for _, block := range splitBlocks(sheet) {
			t := model.NewTable(filing, block, findHeaderRow(block))
			if t.Empty() {
				continue
			}
			tables = append(tables, t)
		}
	}

	return tables, nil
}

// splitBlocks cuts a sheet into row blocks separated by fully blank rows.
func splitBlocks(sheet *xlsx.Sheet) [][][]string {
	var blocks [][][]string
	var current [][]string

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
	}

	for _, row := range sheet.Rows {
		cells := rowStrings(row)
		if blankRow(cells) {
			flush()
			continue
		}
		current = append(current, cells)
	}
	flush()

	return blocks
}

// findHeaderRow returns the first row near the top of a block that carries a
// year token, or -1 when no row qualifies.
func findHeaderRow(block [][]string) int {
	depth := headerSearchDepth
	if len(block) < depth {
		depth = len(block)
	}
	for i := 0; i < depth; i++ {
		for _, cell := range block[i] {
			if headerYearRe.MatchString(cell) {
				return i
			}
		}
	}
	return -1
}

func rowStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
