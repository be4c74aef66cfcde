package engine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/statements-cli/internal/model"
)

// Job is one company's worth of work for a batch run.
type Job struct {
	Filing model.Filing
	Tables []model.Table
}

// Batch consolidates several companies concurrently, at most limit at a
// time. Companies never share pipeline state, so a failure in one is logged
// and skipped rather than aborting the batch; only context cancellation
// stops the whole run. Results align with jobs by index, nil where the
// company failed.
func (e *Engine) Batch(ctx context.Context, jobs []Job, limit int) ([]*RunResult, error) {
	if limit < 1 {
		limit = 1
	}

	results := make([]*RunResult, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := e.Run(ctx, job.Filing, job.Tables)
			if err != nil {
				if ctx.Err() != nil {
					return err
				}
				zap.L().Error("engine: company run failed",
					zap.String("ticker", job.Filing.Ticker),
					zap.Error(err),
				)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
