// Package engine runs the consolidation pipeline for a company: classify
// extracted tables, normalize the keepers, merge duplicate line items per
// statement type, and assemble consolidated sheets.
package engine

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/statements-cli/internal/assembler"
	"github.com/sells-group/statements-cli/internal/classifier"
	"github.com/sells-group/statements-cli/internal/config"
	"github.com/sells-group/statements-cli/internal/merger"
	"github.com/sells-group/statements-cli/internal/model"
	"github.com/sells-group/statements-cli/internal/normalizer"
)

// Engine wires the pipeline stages together. It is immutable after New and
// safe to share across concurrent company runs.
type Engine struct {
	cfg        config.EngineConfig
	classifier *classifier.Classifier
	normalizer *normalizer.Normalizer
}

// New validates the engine configuration once at startup and builds the
// pipeline stages from it.
func New(cfg config.EngineConfig) (*Engine, error) {
	if err := config.ValidateEngine(cfg); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:        cfg,
		classifier: classifier.New(cfg),
		normalizer: normalizer.New(cfg),
	}, nil
}

// RunResult is everything one company run produces: the consolidated sheets
// in statement reading order and the run report for persistence.
type RunResult struct {
	Report model.RunReport
	Sheets []model.ConsolidatedSheet
}

// Run consolidates one company's extracted tables. The pipeline is strictly
// forward: classify, normalize, merge, assemble. Kept tables are ordered
// most recent period first before normalization so that consolidated row
// order follows the newest filing's layout, with older line items appended
// after. No sheet is assembled until every table of its statement type has
// been merged.
func (e *Engine) Run(ctx context.Context, filing model.Filing, tables []model.Table) (*RunResult, error) {
	report := model.RunReport{
		RunID:      uuid.NewString(),
		Filing:     filing,
		TablesSeen: len(tables),
		SheetRows:  make(map[model.StatementType]int),
		StartedAt:  time.Now().UTC(),
	}

	var kept []*model.ClassificationResult
	for i := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, rej := e.classifier.Classify(&tables[i])
		if rej != nil {
			rej.TableIndex = i
			report.Rejections = append(report.Rejections, *rej)
			continue
		}
		kept = append(kept, res)
	}
	report.TablesKept = len(kept)

	sort.SliceStable(kept, func(i, j int) bool {
		return latestPeriod(kept[j]).Before(latestPeriod(kept[i]))
	})

	rowsByType := make(map[model.StatementType][]model.NormalizedRow)
	for _, res := range kept {
		rows := e.normalizer.Normalize(res.Table, res.PeriodColumns)
		rowsByType[res.Type] = append(rowsByType[res.Type], rows...)
	}

	result := &RunResult{}
	for _, st := range model.StatementOrder {
		rows, ok := rowsByType[st]
		if !ok {
			continue
		}
		groups := merger.Merge(rows)
		sheet := assembler.Assemble(filing.Ticker, st, groups)
		result.Sheets = append(result.Sheets, sheet)

		report.SheetRows[st] = len(sheet.Rows)
		for _, r := range sheet.Rows {
			if r.WasMerged {
				report.MergedRows++
			}
			report.Conflicts += len(r.Conflicts)
		}
	}

	report.FinishedAt = time.Now().UTC()
	result.Report = report

	zap.L().Info("engine: run complete",
		zap.String("run_id", report.RunID),
		zap.String("ticker", filing.Ticker),
		zap.Int("tables_seen", report.TablesSeen),
		zap.Int("tables_kept", report.TablesKept),
		zap.Int("merged_rows", report.MergedRows),
		zap.Int("conflicts", report.Conflicts),
	)

	return result, nil
}

// latestPeriod returns the most recent period a classified table covers.
func latestPeriod(res *model.ClassificationResult) model.Period {
	var max model.Period
	for _, pc := range res.PeriodColumns {
		if max.Before(pc.Period) {
			max = pc.Period
		}
	}
	return max
}
