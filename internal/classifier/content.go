package classifier

import (
	"regexp"
	"strings"
)

// currencyPatterns match currency-shaped cell values: $1,234, 1,234.56,
// and parenthesized negatives.
var currencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$[\d,]+`),
	regexp.MustCompile(`\([\d,]+(\.\d+)?\)`),
	regexp.MustCompile(`\b\d{1,3}(,\d{3})+(\.\d+)?\b`),
	regexp.MustCompile(`\b\d+\.\d{2}\b`),
}

// ContentDensity returns the fraction of rows that look financial: the row
// label matches a vocabulary keyword, or any cell carries a currency-shaped
// value. Always in [0,1].
func ContentDensity(rows [][]string, keywords []string) float64 {
	if len(rows) == 0 {
		return 0
	}

	hits := 0
	for _, row := range rows {
		if rowIsFinancial(row, keywords) {
			hits++
		}
	}
	return float64(hits) / float64(len(rows))
}

func rowIsFinancial(row []string, keywords []string) bool {
	if len(row) == 0 {
		return false
	}

	label := strings.ToLower(row[0])
	for _, kw := range keywords {
		if strings.Contains(label, kw) {
			return true
		}
	}

	for _, cell := range row {
		for _, re := range currencyPatterns {
			if re.MatchString(cell) {
				return true
			}
		}
	}
	return false
}
