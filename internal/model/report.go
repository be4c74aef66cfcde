package model

import "time"

// RejectReason says why a table was dropped before consolidation.
type RejectReason string

const (
	RejectMalformed     RejectReason = "malformed"
	RejectLowConfidence RejectReason = "low_confidence"
)

// Rejection records one dropped table. The confidence score is retained for
// threshold tuning; TableIndex points back into the run's input order.
type Rejection struct {
	TableIndex int          `json:"table_index"`
	Reason     RejectReason `json:"reason"`
	Confidence float64      `json:"confidence"`
}

// RunReport summarizes one consolidation run for a company. Reports are the
// only artifact persisted between runs; the sheets themselves are not.
type RunReport struct {
	RunID      string                `json:"run_id"`
	Filing     Filing                `json:"filing"`
	TablesSeen int                   `json:"tables_seen"`
	TablesKept int                   `json:"tables_kept"`
	Rejections []Rejection           `json:"rejections,omitempty"`
	SheetRows  map[StatementType]int `json:"sheet_rows,omitempty"`
	MergedRows int                   `json:"merged_rows"`
	Conflicts  int                   `json:"conflicts"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
}

// RejectedCount returns the number of rejections with the given reason.
func (r RunReport) RejectedCount(reason RejectReason) int {
	n := 0
	for _, rej := range r.Rejections {
		if rej.Reason == reason {
			n++
		}
	}
	return n
}
