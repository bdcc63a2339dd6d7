package portfolio

import (
	"context"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/capital-cli/internal/capital"
)

// Calculator is the part of capital.Calculator the runner needs.
type Calculator interface {
	Calculate(l capital.LoanExposure) capital.CapitalResult
}

// Runner calculates a portfolio with bounded concurrency.
type Runner struct {
	calc        Calculator
	concurrency int
}

// NewRunner creates a Runner. concurrency < 1 is treated as 1.
func NewRunner(calc Calculator, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{calc: calc, concurrency: concurrency}
}

// Run calculates every loan and returns results in input order. It only
// fails when ctx is cancelled; per-loan problems are carried in each
// result's status.
func (r *Runner) Run(ctx context.Context, loans []capital.LoanExposure) ([]capital.CapitalResult, error) {
	results := make([]capital.CapitalResult, len(loans))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	var done, notOK atomic.Int64
	for i, loan := range loans {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return eris.Wrap(err, "portfolio: run cancelled")
			}

			res := r.calc.Calculate(loan)
			results[i] = res

			if res.Status != capital.StatusOK {
				notOK.Add(1)
				zap.L().Warn("portfolio: loan not calculated",
					zap.String("id", loan.ID),
					zap.String("status", string(res.Status)),
					zap.String("error", res.Error),
					zap.String("reason", res.Reason),
				)
			}
			if n := done.Add(1); n%500 == 0 {
				zap.L().Info("portfolio: progress", zap.Int64("done", n), zap.Int("total", len(loans)))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("portfolio: run complete",
		zap.Int("total", len(loans)),
		zap.Int64("not_ok", notOK.Load()),
		zap.Int("concurrency", r.concurrency),
	)
	return results, nil
}
