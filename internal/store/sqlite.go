package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/statements-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS run_reports (
	id         TEXT PRIMARY KEY,
	ticker     TEXT NOT NULL,
	report     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_run_reports_ticker ON run_reports(ticker);
CREATE INDEX IF NOT EXISTS idx_run_reports_created_at ON run_reports(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveReport inserts one run report. The report body is stored as JSON; the
// ticker is duplicated into its own column for filtering.
func (s *SQLiteStore) SaveReport(ctx context.Context, report model.RunReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal report")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO run_reports (id, ticker, report, created_at) VALUES (?, ?, ?, ?)`,
		report.RunID, report.Filing.Ticker, string(body), report.FinishedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert report %s", report.RunID)
	}
	return nil
}

func (s *SQLiteStore) GetReport(ctx context.Context, runID string) (*model.RunReport, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT report FROM run_reports WHERE id = ?`, runID,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("sqlite: report %s not found", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get report %s", runID)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal report %s", runID)
	}
	return &report, nil
}

// ListReports returns reports newest first, optionally filtered by ticker.
func (s *SQLiteStore) ListReports(ctx context.Context, filter ReportFilter) ([]model.RunReport, error) {
	query := `SELECT report FROM run_reports`
	var args []any
	if filter.Ticker != "" {
		query += ` WHERE ticker = ?`
		args = append(args, filter.Ticker)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reports")
	}
	defer rows.Close()

	var reports []model.RunReport
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan report")
		}
		var report model.RunReport
		if err := json.Unmarshal([]byte(body), &report); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal report")
		}
		reports = append(reports, report)
	}
	return reports, eris.Wrap(rows.Err(), "sqlite: iterate reports")
}
