// SPDX-License-Identifier: MIT

package regress

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/countprep/internal/zlog"
	"github.com/katalvlaran/countprep/workpool"
)

const (
	// DefaultParallelism runs chunks sequentially.
	DefaultParallelism = 1

	// DefaultRankTolerance is the relative threshold on |R_ii| / max|R_jj|
	// below which a design is treated as rank-deficient.
	DefaultRankTolerance = 1e-10

	// maxChunkBase caps the column count used to size chunks.
	maxChunkBase = 1000
)

const panicToleranceInvalid = "regress: WithRankTolerance: tolerance must be in (0, 1)"

// Option configures RemoveLinearEffect.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	parallelism int
	rankTol     float64
	budget      *workpool.Budget
	logger      *zap.Logger
}

// WithParallelism sets the number of workers P (values < 1 mean 1).
func WithParallelism(p int) Option {
	return func(o *Options) { o.parallelism = max(p, 1) }
}

// WithRankTolerance overrides DefaultRankTolerance.
func WithRankTolerance(tol float64) Option {
	if !(tol > 0 && tol < 1) {
		panic(panicToleranceInvalid)
	}
	return func(o *Options) { o.rankTol = tol }
}

// WithBudget draws workers from b instead of workpool.Process().
func WithBudget(b *workpool.Budget) Option {
	return func(o *Options) { o.budget = b }
}

// WithLogger sets the logger for degenerate-column and fallback warnings.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.logger = l }
}

func gatherOptions(opts ...Option) Options {
	o := Options{parallelism: DefaultParallelism, rankTol: DefaultRankTolerance}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	o.logger = zlog.OrNop(o.logger)
	return o
}
