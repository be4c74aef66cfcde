package classifier

import (
	"regexp"
	"strconv"

	"github.com/sells-group/statements-cli/internal/config"
	"github.com/sells-group/statements-cli/internal/model"
)

var (
	yearTokenRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	quarterRe   = regexp.MustCompile(`(?i)\bQ([1-4])\b`)
)

// headerScanDepth is how many leading rows are scanned for period labels
// when the fetcher did not detect a header row.
const headerScanDepth = 3

// DetectYears scans a table's header cells for reporting-period labels and
// returns one PeriodColumn per distinct period, in column order. It scans
// the designated header row, or the first headerScanDepth rows when none
// was detected. Tokens outside the configured year range are ignored; a
// period appearing in more than one column keeps its first column.
func DetectYears(t *model.Table, yr config.YearRange) []model.PeriodColumn {
	var rows []int
	if t.HeaderRow >= 0 && t.HeaderRow < len(t.Rows) {
		rows = []int{t.HeaderRow}
	} else {
		for i := 0; i < len(t.Rows) && i < headerScanDepth; i++ {
			rows = append(rows, i)
		}
	}

	var out []model.PeriodColumn
	seen := make(map[model.Period]bool)
	for _, ri := range rows {
		for col, cell := range t.Rows[ri] {
			for _, p := range periodsInCell(cell, yr) {
				if seen[p] {
					continue
				}
				seen[p] = true
				out = append(out, model.PeriodColumn{Period: p, Column: col})
			}
		}
	}
	return out
}

// periodsInCell extracts reporting periods from one header cell. A quarter
// marker in the same cell ("Q1 2023", "Q3 FY2022") binds to every year
// token in that cell.
func periodsInCell(cell string, yr config.YearRange) []model.Period {
	matches := yearTokenRe.FindAllString(cell, -1)
	if len(matches) == 0 {
		return nil
	}

	quarter := 0
	if qm := quarterRe.FindStringSubmatch(cell); qm != nil {
		quarter, _ = strconv.Atoi(qm[1])
	}

	var out []model.Period
	for _, m := range matches {
		year, err := strconv.Atoi(m)
		if err != nil || year < yr.Min || year > yr.Max {
			continue
		}
		out = append(out, model.Period{Year: year, Quarter: quarter})
	}
	return out
}

// distinctYears counts distinct calendar years among detected periods.
func distinctYears(cols []model.PeriodColumn) int {
	years := make(map[int]bool, len(cols))
	for _, pc := range cols {
		years[pc.Period.Year] = true
	}
	return len(years)
}
