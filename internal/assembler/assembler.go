// Package assembler turns merge groups into consolidated per-statement
// sheets ready for export.
package assembler

import (
	"sort"

	"github.com/sells-group/statements-cli/internal/merger"
	"github.com/sells-group/statements-cli/internal/model"
)

// Assemble builds one consolidated sheet for a statement type from its
// merged rows. Row order follows the merge groups, which follow first
// appearance in the input tables; periods are the union of every row's
// periods, sorted ascending so the oldest column comes first.
func Assemble(ticker string, st model.StatementType, groups []merger.MergeGroup) model.ConsolidatedSheet {
	sheet := model.ConsolidatedSheet{
		Ticker: ticker,
		Type:   st,
		Rows:   make([]model.MergedRow, 0, len(groups)),
	}

	seen := make(map[model.Period]bool)
	for _, g := range groups {
		sheet.Rows = append(sheet.Rows, g.Merged)
		for p := range g.Merged.Values {
			if !seen[p] {
				seen[p] = true
				sheet.Periods = append(sheet.Periods, p)
			}
		}
	}

	sort.Slice(sheet.Periods, func(i, j int) bool {
		return sheet.Periods[i].Before(sheet.Periods[j])
	})

	return sheet
}
