// Package classifier decides whether an extracted table is a genuine
// multi-period financial statement and which statement type it carries.
package classifier

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/statements-cli/internal/config"
	"github.com/sells-group/statements-cli/internal/model"
)

// Classifier scores tables against a fixed configuration. It holds no
// mutable state and is safe for concurrent use across companies.
type Classifier struct {
	cfg config.EngineConfig
}

// New creates a Classifier from validated engine configuration.
func New(cfg config.EngineConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify scores one table. It returns either a ClassificationResult for a
// kept table or a Rejection; rejection is an outcome, not an error. A table
// needs at least two distinct years to pass, so the inclusive threshold
// comparison is conf >= ConfidenceThreshold.
func (c *Classifier) Classify(t *model.Table) (*model.ClassificationResult, *model.Rejection) {
	if t.Empty() {
		return nil, &model.Rejection{Reason: model.RejectMalformed}
	}

	cols := DetectYears(t, c.cfg.YearRange)
	density := ContentDensity(t.Rows, c.cfg.FinancialKeywords)
	conf := c.confidence(cols, density)

	if conf < c.cfg.ConfidenceThreshold {
		zap.L().Debug("classifier: table rejected",
			zap.Float64("confidence", conf),
			zap.Int("years", distinctYears(cols)),
		)
		return nil, &model.Rejection{Reason: model.RejectLowConfidence, Confidence: conf}
	}

	return &model.ClassificationResult{
		Table:         t,
		Confidence:    conf,
		Type:          statementType(t.Rows),
		PeriodColumns: cols,
	}, nil
}

// confidence combines year presence, year count, and content density into
// one [0,1] score. The year-count component scales linearly: 2 distinct
// years earn half its weight, 3 or more earn all of it; fewer than 2 years
// zero out both year components. Tables with 3+ years also earn the
// multi-column bonus, with the total capped at 1.0.
func (c *Classifier) confidence(cols []model.PeriodColumn, density float64) float64 {
	w := c.cfg.Weights
	years := distinctYears(cols)

	conf := w.Content * density
	switch {
	case years >= 3:
		conf += w.YearPresence + w.YearCount + w.MultiColumnBonus
	case years == 2:
		conf += w.YearPresence + w.YearCount*0.5
	}

	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}

// typeKeywords is checked in order; the first match wins. Balance sheets
// are also recognized by assets and liabilities appearing together, since
// many filings title the table "Statements of Financial Position".
var typeKeywords = []struct {
	typ   model.StatementType
	terms []string
}{
	{model.StatementIncome, []string{"income statement", "statements of operations", "statement of operations"}},
	{model.StatementBalance, []string{"balance sheet"}},
	{model.StatementCashFlow, []string{"cash flow"}},
	{model.StatementComprehensive, []string{"comprehensive income"}},
	{model.StatementEquity, []string{"shareholders equity", "shareholders' equity", "stockholders equity", "stockholders' equity"}},
}

// statementType assigns a statement type by first-match keyword search over
// the table's textual content.
func statementType(rows [][]string) model.StatementType {
	var b strings.Builder
	for _, row := range rows {
		for _, cell := range row {
			b.WriteString(strings.ToLower(cell))
			b.WriteByte(' ')
		}
	}
	text := b.String()

	for _, tk := range typeKeywords {
		for _, term := range tk.terms {
			if strings.Contains(text, term) {
				return tk.typ
			}
		}
	}
	if strings.Contains(text, "assets") && strings.Contains(text, "liabilities") {
		return model.StatementBalance
	}
	return model.StatementUnclassified
}
