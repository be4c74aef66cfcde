// Package exporter writes consolidated sheets to an XLSX workbook for
// analyst review.
package exporter

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/statements-cli/internal/model"
)

// Fill colors for review highlighting. Merged rows get yellow so a reviewer
// can see which lines were collapsed; conflicted cells get orange because
// the value shown is the last writer, not a verified figure.
var (
	mergedFill   = xlsx.NewFill("solid", "FFFFFF00", "FFFFFF00")
	conflictFill = xlsx.NewFill("solid", "FFFFA500", "FFFFA500")
)

// sheetTitles maps statement types to workbook sheet names.
var sheetTitles = map[model.StatementType]string{
	model.StatementIncome:        "Income Statement",
	model.StatementBalance:       "Balance Sheet",
	model.StatementCashFlow:      "Cash Flow",
	model.StatementComprehensive: "Comprehensive Income",
	model.StatementEquity:        "Equity",
	model.StatementUnclassified:  "Unclassified",
}

// WriteWorkbook writes one workbook with one tab per consolidated sheet.
// Each tab has a header row of "Line Item" plus the sheet's periods in
// order; missing amounts leave the cell blank.
func WriteWorkbook(path string, sheets []model.ConsolidatedSheet) error {
	if len(sheets) == 0 {
		return eris.New("exporter: no sheets to write")
	}

	f := xlsx.NewFile()

	for _, sheet := range sheets {
		tab, err := f.AddSheet(sheetTitle(sheet.Type))
		if err != nil {
			return eris.Wrapf(err, "exporter: add sheet %s", sheet.Type)
		}
		writeSheet(tab, sheet)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "exporter: save workbook")
	}
	return nil
}

func sheetTitle(st model.StatementType) string {
	if title, ok := sheetTitles[st]; ok {
		return title
	}
	return string(st)
}

func writeSheet(tab *xlsx.Sheet, sheet model.ConsolidatedSheet) {
	header := tab.AddRow()
	header.AddCell().SetString("Line Item")
	for _, p := range sheet.Periods {
		header.AddCell().SetString(p.String())
	}

	for _, row := range sheet.Rows {
		r := tab.AddRow()

		label := r.AddCell()
		label.SetString(row.CanonicalLabel)
		if row.WasMerged {
			label.SetStyle(fillStyle(mergedFill))
		}

		for _, p := range sheet.Periods {
			cell := r.AddCell()
			amt, ok := row.Values[p]
			if !ok || !amt.Valid {
				continue
			}
			cell.SetFloat(amt.Value)
			if row.Conflicts[p] {
				cell.SetStyle(fillStyle(conflictFill))
			} else if row.WasMerged {
				cell.SetStyle(fillStyle(mergedFill))
			}
		}
	}
}

func fillStyle(fill *xlsx.Fill) *xlsx.Style {
	style := xlsx.NewStyle()
	style.Fill = *fill
	style.ApplyFill = true
	return style
}
