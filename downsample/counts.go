// SPDX-License-Identifier: MIT

package downsample

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/countprep/internal/rng"
	"github.com/katalvlaran/countprep/matrix"
)

// Result lists the rows Counts rewrote.
type Result struct {
	Rows []int // ascending indices of rows whose total exceeded the target
}

// Counts downsamples every row whose total exceeds target; other rows are
// left unchanged.
//
// Behavior highlights:
//   - All values must be non-negative integers; this is checked before any write.
//   - Row i uses rng.Derive(seed, i), independent of representation and of
//     which other rows are downsampled.
//   - CSR rows keep their sparsity layout; use CSR.EliminateZeros to compact.
//   - Without WithCopy(true), m is modified in place and returned.
//
// Errors: matrix.ErrNilMatrix; ErrInvalidTarget; ErrNonInteger; matrix.ErrUnsupported
// for representations other than Dense and CSR.
func Counts(m matrix.Matrix, target int64, opts ...Option) (matrix.Matrix, Result, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, Result{}, fmt.Errorf("downsample.Counts: %w", err)
	}
	if target < 0 {
		return nil, Result{}, fmt.Errorf("downsample.Counts: %w", ErrInvalidTarget)
	}
	o := gatherOptions(opts...)

	var values []float64
	switch t := m.(type) {
	case *matrix.Dense:
		values = t.RawData()
	case *matrix.CSR:
		values = t.Data()
	default:
		return nil, Result{}, fmt.Errorf("downsample.Counts: %w", matrix.ErrUnsupported)
	}
	if err := checkIntegers(values); err != nil {
		return nil, Result{}, fmt.Errorf("downsample.Counts: %w", err)
	}

	out := m
	if o.copy {
		out = m.Clone()
	}
	totals := out.RowReduce(matrix.ReduceSum)
	var res Result
	var buf []int64
	for i, total := range totals {
		if int64(total) <= target {
			continue
		}
		row := rowValues(out, i)
		buf = toInts(buf, row)
		if err := rowInto(buf, buf, target, o.replace, rng.Derive(o.seed, uint64(i))); err != nil {
			return nil, Result{}, fmt.Errorf("downsample.Counts: row %d: %w", i, err)
		}
		for k, v := range buf {
			row[k] = float64(v)
		}
		res.Rows = append(res.Rows, i)
	}
	o.logger.Debug("downsampled rows",
		zap.Int("rows", len(res.Rows)), zap.Int64("target", target), zap.Bool("replace", o.replace))

	return out, res, nil
}

// rowValues returns the mutable values of row i: the dense row or the CSR run.
func rowValues(m matrix.Matrix, i int) []float64 {
	if s, ok := m.(*matrix.CSR); ok {
		_, vals := s.RowRun(i)
		return vals
	}
	return m.(*matrix.Dense).RawRow(i)
}

func checkIntegers(values []float64) error {
	for k, v := range values {
		if v < 0 || v != math.Trunc(v) || math.IsInf(v, 0) {
			return fmt.Errorf("value %v at storage offset %d: %w", v, k, ErrNonInteger)
		}
	}
	return nil
}

func toInts(buf []int64, row []float64) []int64 {
	if cap(buf) < len(row) {
		buf = make([]int64, len(row))
	}
	buf = buf[:len(row)]
	for k, v := range row {
		buf[k] = int64(v)
	}
	return buf
}
