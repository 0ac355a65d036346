// SPDX-License-Identifier: MIT

package regress

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/countprep/matrix"
	"github.com/katalvlaran/countprep/workpool"
)

// Report describes how a RemoveLinearEffect call went.
type Report struct {
	Degenerate []int // columns whose residual was set to zero, ascending
	Sequential bool  // true when the pool was skipped or unavailable
	Chunks     int   // number of column chunks
}

// RemoveLinearEffect returns the OLS residuals of every column of X against cov.
// X is not modified; the result has X's shape.
//
// Errors:
//   - matrix.ErrNilMatrix; matrix.ErrDimensionMismatch when covariates and X
//     disagree on the row count; ErrInvalidCovariates.
//
// Rank-deficient designs and an unavailable worker pool are recovered and
// reported through Report and warning logs.
func RemoveLinearEffect(X *matrix.Dense, cov Covariates, opts ...Option) (*matrix.Dense, Report, error) {
	if X == nil {
		return nil, Report{}, fmt.Errorf("regress.RemoveLinearEffect: %w", matrix.ErrNilMatrix)
	}
	o := gatherOptions(opts...)
	n, p := X.Shape()
	ngroups, err := cov.validate(n)
	if err != nil {
		return nil, Report{}, fmt.Errorf("regress.RemoveLinearEffect: %w", err)
	}

	out := X.ToDense()
	if p == 0 || n == 0 {
		return out, Report{Sequential: true}, nil
	}

	s := &solver{
		src:     X.RawData(),
		dst:     out.RawData(),
		n:       n,
		p:       p,
		cov:     cov,
		ngroups: ngroups,
		rankTol: o.rankTol,
	}
	if !cov.IsCategorical() {
		s.design = cov.numericDesign(n)
	}

	chunks := splitColumns(p, o.parallelism)
	rep := Report{Chunks: len(chunks)}
	degen := make([][]int, len(chunks))

	if o.parallelism <= 1 || len(chunks) == 1 {
		rep.Sequential = true
	} else {
		tasks := make([]workpool.Task, len(chunks))
		for i, c := range chunks {
			tasks[i] = func() error {
				degen[i] = s.run(c[0], c[1])
				return nil
			}
		}
		pool := workpool.New(o.parallelism, workpool.WithBudget(o.budget), workpool.WithLogger(o.logger))
		results, runErr := pool.Run(tasks)
		switch {
		case errors.Is(runErr, workpool.ErrUnavailable):
			o.logger.Warn("worker pool unavailable, regressing sequentially",
				zap.Int("parallelism", o.parallelism), zap.Int("chunks", len(chunks)))
			rep.Sequential = true
		case runErr != nil:
			return nil, Report{}, fmt.Errorf("regress.RemoveLinearEffect: %w", runErr)
		default:
			for i, taskErr := range results {
				if taskErr != nil {
					o.logger.Warn("chunk failed in pool, recomputing sequentially",
						zap.Int("chunk", i), zap.Error(taskErr))
					degen[i] = s.run(chunks[i][0], chunks[i][1])
				}
			}
		}
	}
	if rep.Sequential {
		for i, c := range chunks {
			degen[i] = s.run(c[0], c[1])
		}
	}

	for _, d := range degen {
		rep.Degenerate = append(rep.Degenerate, d...)
	}
	slices.Sort(rep.Degenerate)
	for _, j := range rep.Degenerate {
		o.logger.Warn("rank-deficient design, residual set to zero", zap.Int("column", j))
	}

	return out, rep, nil
}

// splitColumns returns [start, end) column ranges of length
// ceil(min(1000, p)/P); the last range may be shorter.
func splitColumns(p, parallelism int) [][2]int {
	base := min(maxChunkBase, p)
	size := (base + parallelism - 1) / parallelism
	size = max(size, 1)
	chunks := make([][2]int, 0, (p+size-1)/size)
	for start := 0; start < p; start += size {
		chunks = append(chunks, [2]int{start, min(start+size, p)})
	}
	return chunks
}

// solver holds the read-only inputs shared by every chunk. Each run call owns
// its scratch space, so concurrent runs on disjoint column ranges are safe.
type solver struct {
	src, dst []float64 // row-major n × p
	n, p     int
	cov      Covariates
	design   *mat.Dense // shared numeric design, nil for categorical
	ngroups  int
	rankTol  float64
}

// run fits columns [c0, c1) and returns the degenerate ones.
func (s *solver) run(c0, c1 int) []int {
	var degenerate []int
	y := make([]float64, s.n)
	res := make([]float64, s.n)

	var qr mat.QR
	sharedOK := false
	if s.design != nil {
		sharedOK = s.factorize(&qr, s.design)
	}
	var design *mat.Dense
	var sums, counts []float64
	if s.design == nil {
		design = mat.NewDense(s.n, 2, nil)
		sums = make([]float64, s.ngroups)
		counts = make([]float64, s.ngroups)
	}

	for j := c0; j < c1; j++ {
		for i := 0; i < s.n; i++ {
			y[i] = s.src[i*s.p+j]
		}
		ok := sharedOK
		d := s.design
		if d == nil {
			s.categoricalDesign(design, y, sums, counts)
			d = design
			ok = s.factorize(&qr, d)
		}
		if ok {
			ok = s.residual(&qr, d, y, res)
		}
		if !ok {
			degenerate = append(degenerate, j)
			clear(res)
		}
		for i := 0; i < s.n; i++ {
			s.dst[i*s.p+j] = res[i]
		}
	}
	return degenerate
}

// categoricalDesign fills design with [1, group mean of y for the row's group].
func (s *solver) categoricalDesign(design *mat.Dense, y, sums, counts []float64) {
	clear(sums)
	clear(counts)
	for i, g := range s.cov.groups {
		sums[g] += y[i]
		counts[g]++
	}
	for i, g := range s.cov.groups {
		design.Set(i, 0, 1)
		design.Set(i, 1, sums[g]/counts[g])
	}
}

// factorize computes the QR of d and reports whether d has full column rank.
func (s *solver) factorize(qr *mat.QR, d *mat.Dense) bool {
	r, c := d.Dims()
	if r < c {
		return false
	}
	qr.Factorize(d)
	var R mat.Dense
	qr.RTo(&R)
	maxDiag := 0.0
	for i := 0; i < c; i++ {
		maxDiag = math.Max(maxDiag, math.Abs(R.At(i, i)))
	}
	if maxDiag == 0 {
		return false
	}
	for i := 0; i < c; i++ {
		if math.Abs(R.At(i, i)) <= s.rankTol*maxDiag {
			return false
		}
	}
	return true
}

// residual solves min‖dβ − y‖ and writes y − dβ into res.
func (s *solver) residual(qr *mat.QR, d *mat.Dense, y, res []float64) bool {
	var beta, fit mat.VecDense
	if err := qr.SolveVecTo(&beta, false, mat.NewVecDense(len(y), y)); err != nil {
		return false
	}
	fit.MulVec(d, &beta)
	for i := range res {
		res[i] = y[i] - fit.AtVec(i)
	}
	return true
}
