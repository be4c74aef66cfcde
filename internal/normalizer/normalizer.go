// Package normalizer canonicalizes row labels and parses cell values so
// that the same line item matches across tables and filing years.
package normalizer

import (
	"github.com/sells-group/statements-cli/internal/config"
	"github.com/sells-group/statements-cli/internal/model"
)

// Normalizer canonicalizes rows against a fixed synonym table. It holds no
// mutable state and is safe for concurrent use across companies.
type Normalizer struct {
	synonyms map[string]string
}

// New creates a Normalizer from validated engine configuration.
func New(cfg config.EngineConfig) *Normalizer {
	return &Normalizer{synonyms: cfg.SynonymTable}
}

// Normalize converts a classified table's data rows into NormalizedRows,
// reading one Amount per detected period column. The header row, rows with
// an empty canonical label, and rows with no parseable value (section
// headings, spacer text) are skipped. Zero is a value; only unparseable
// cells become missing.
func (n *Normalizer) Normalize(t *model.Table, periodColumns []model.PeriodColumn) []model.NormalizedRow {
	var out []model.NormalizedRow

	for i, row := range t.Rows {
		if i == t.HeaderRow || len(row) == 0 {
			continue
		}

		canonical := n.CanonicalLabel(row[0])
		if canonical == "" {
			continue
		}

		values := make(map[model.Period]model.Amount, len(periodColumns))
		any := false
		for _, pc := range periodColumns {
			if pc.Column >= len(row) {
				continue
			}
			amt := ParseAmount(row[pc.Column])
			values[pc.Period] = amt
			if amt.Valid {
				any = true
			}
		}
		if !any {
			continue
		}

		out = append(out, model.NormalizedRow{
			CanonicalLabel: canonical,
			RawLabel:       row[0],
			Values:         values,
		})
	}

	return out
}
