package store

import (
	"context"

	"github.com/sells-group/statements-cli/internal/model"
)

// ReportFilter specifies criteria for listing run reports.
type ReportFilter struct {
	Ticker string `json:"ticker,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store persists run reports. Consolidated sheets are not persisted; they
// are rebuilt from the source workbooks on every run.
type Store interface {
	SaveReport(ctx context.Context, report model.RunReport) error
	GetReport(ctx context.Context, runID string) (*model.RunReport, error)
	ListReports(ctx context.Context, filter ReportFilter) ([]model.RunReport, error)

	Migrate(ctx context.Context) error
	Close() error
}
