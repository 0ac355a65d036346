// SPDX-License-Identifier: MIT

package normalize

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/countprep/matrix"
)

// ExcludingDominant normalizes each row by the total over "non-dominant"
// columns only and returns a new matrix (the input is untouched).
//
// A column is non-dominant when, in every row i, its value is at most
// maxFraction·total_i. With multWithMean the result is multiplied by the mean
// of the full row totals. Zero restricted totals are treated as 1.
//
// Errors: ErrInvalidFraction; matrix.ErrNilMatrix.
func ExcludingDominant(m matrix.Matrix, maxFraction float64, multWithMean bool) (matrix.Matrix, error) {
	if maxFraction < 0 || maxFraction > 1 {
		return nil, fmt.Errorf("normalize.ExcludingDominant: %v: %w", maxFraction, ErrInvalidFraction)
	}
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, fmt.Errorf("normalize.ExcludingDominant: %w", err)
	}

	totals := m.RowReduce(matrix.ReduceSum)
	keep := matrix.NewMask(m.Cols(), true)
	visit(m, func(i, j int, v float64) {
		if v > totals[i]*maxFraction {
			keep[j] = false
		}
	})
	restricted := make([]float64, m.Rows())
	visit(m, func(i, j int, v float64) {
		if keep[j] {
			restricted[i] += v
		}
	})

	mult := 1.0
	if multWithMean && len(totals) > 0 {
		mult = stat.Mean(totals, nil)
	}
	out := m.Clone()
	if err := out.RowScale(Factors(restricted, mult)); err != nil {
		return nil, fmt.Errorf("normalize.ExcludingDominant: %w", err)
	}

	return out, nil
}

// visit calls fn for every stored entry in row-major order. Implicit CSR zeros
// are skipped; they never exceed a non-negative threshold and add nothing to sums.
func visit(m matrix.Matrix, fn func(i, j int, v float64)) {
	switch t := m.(type) {
	case *matrix.CSR:
		for i := 0; i < t.Rows(); i++ {
			cols, vals := t.RowRun(i)
			for k, j := range cols {
				fn(i, j, vals[k])
			}
		}
	default:
		d, ok := m.(*matrix.Dense)
		if !ok {
			d = m.ToDense()
		}
		for i := 0; i < d.Rows(); i++ {
			for j, v := range d.RawRow(i) {
				fn(i, j, v)
			}
		}
	}
}
