package model

import "fmt"

// StatementType classifies a table's financial content.
type StatementType string

const (
	StatementIncome        StatementType = "income_statement"
	StatementBalance       StatementType = "balance_sheet"
	StatementCashFlow      StatementType = "cash_flow"
	StatementComprehensive StatementType = "comprehensive_income"
	StatementEquity        StatementType = "equity"
	StatementUnclassified  StatementType = "unclassified"
)

// StatementOrder is the familiar reading order for consolidated output.
var StatementOrder = []StatementType{
	StatementIncome,
	StatementBalance,
	StatementCashFlow,
	StatementComprehensive,
	StatementEquity,
	StatementUnclassified,
}

// Period is a reporting period detected in a table header. Quarter 0 means
// an annual period. Period is comparable and used as a map key.
type Period struct {
	Year    int `json:"year"`
	Quarter int `json:"quarter,omitempty"`
}

func (p Period) String() string {
	if p.Quarter > 0 {
		return fmt.Sprintf("Q%d %d", p.Quarter, p.Year)
	}
	return fmt.Sprintf("%d", p.Year)
}

// Before orders periods chronologically (year, then quarter).
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Quarter < q.Quarter
}

// PeriodColumn binds a detected Period to its column index within a Table.
type PeriodColumn struct {
	Period Period `json:"period"`
	Column int    `json:"column"`
}

// Amount is a numeric cell value or the explicit missing state. Missing is
// distinct from zero; both survive through the merge stage.
type Amount struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Num returns a present Amount.
func Num(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// ClassificationResult is the classifier's verdict on one table. It is
// produced once per table and never mutated.
type ClassificationResult struct {
	Table         *Table         `json:"-"`
	Confidence    float64        `json:"confidence"`
	Type          StatementType  `json:"statement_type"`
	PeriodColumns []PeriodColumn `json:"period_columns"`
}

// Periods returns just the detected periods, in column order.
func (c ClassificationResult) Periods() []Period {
	out := make([]Period, len(c.PeriodColumns))
	for i, pc := range c.PeriodColumns {
		out[i] = pc.Period
	}
	return out
}

// NormalizedRow is one statement row after label canonicalization and value
// parsing. Values holds an Amount per detected period; absent map entries
// and invalid Amounts both mean missing.
type NormalizedRow struct {
	CanonicalLabel string            `json:"canonical_label"`
	RawLabel       string            `json:"raw_label"`
	Values         map[Period]Amount `json:"values"`
}

// MergedRow is the collapse of one merge group: the union of its members'
// periods, with per-period conflict flags for downstream highlighting.
type MergedRow struct {
	CanonicalLabel string            `json:"canonical_label"`
	Members        []NormalizedRow   `json:"members"`
	Values         map[Period]Amount `json:"values"`
	Conflicts      map[Period]bool   `json:"conflicts,omitempty"`
	WasMerged      bool              `json:"was_merged"`
}

// ConsolidatedSheet is the assembled output for one statement type of one
// company: every merged row, spanning every period seen. Sheets are rebuilt
// from scratch each run and never persisted.
type ConsolidatedSheet struct {
	Ticker  string        `json:"ticker"`
	Type    StatementType `json:"statement_type"`
	Periods []Period      `json:"periods"`
	Rows    []MergedRow   `json:"rows"`
}
