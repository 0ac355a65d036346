// SPDX-License-Identifier: MIT

package normalize

import (
	"errors"
	"fmt"
	"slices"

	"github.com/katalvlaran/countprep/matrix"
)

var (
	// ErrNoReferenceRows is returned when the median target is requested but
	// no row meets the minimum total.
	ErrNoReferenceRows = errors.New("normalize: no row meets the minimum total")

	// ErrInvalidFraction is returned by ExcludingDominant for a fraction outside [0, 1].
	ErrInvalidFraction = errors.New("normalize: max fraction must lie in [0, 1]")
)

// Result reports what Rows did.
type Result struct {
	TargetTotal float64   // target applied to every row
	Totals      []float64 // per-row totals before normalization (zeros kept as 0)
}

// Rows scales each row i by target/total_i.
//
// Behavior highlights:
//   - total_i comes from WithTotals or RowReduce(ReduceSum).
//   - A zero total is treated as 1, so all-zero rows stay zero.
//   - Without WithTargetTotal, target = median of the totals of rows with
//     total >= min total (default 1).
//   - Without WithCopy(true), m is modified in place and returned.
//
// Errors:
//   - matrix.ErrNilMatrix; matrix.ErrDimensionMismatch for WithTotals of the wrong length.
//   - ErrNoReferenceRows when the median target has no qualifying row.
func Rows(m matrix.Matrix, opts ...Option) (matrix.Matrix, Result, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, Result{}, fmt.Errorf("normalize.Rows: %w", err)
	}
	o := gatherOptions(opts...)

	totals := o.totals
	if totals == nil {
		totals = m.RowReduce(matrix.ReduceSum)
	} else if err := matrix.ValidateVecLen(totals, m.Rows()); err != nil {
		return nil, Result{}, fmt.Errorf("normalize.Rows: totals: %w", err)
	}

	target := o.target
	if target == 0 {
		var err error
		if target, err = MedianTotal(totals, o.minTotal); err != nil {
			return nil, Result{}, fmt.Errorf("normalize.Rows: %w", err)
		}
	}

	out := m
	if o.copy {
		out = m.Clone()
	}
	if err := out.RowScale(Factors(totals, target)); err != nil {
		return nil, Result{}, fmt.Errorf("normalize.Rows: %w", err)
	}

	return out, Result{TargetTotal: target, Totals: slices.Clone(totals)}, nil
}

// Factors returns target/total per row, with zero totals treated as 1.
func Factors(totals []float64, target float64) []float64 {
	f := make([]float64, len(totals))
	for i, t := range totals {
		if t == 0 {
			t = 1
		}
		f[i] = target / t
	}
	return f
}

// MedianTotal is the median of the totals >= minTotal, zero totals counted as 1.
// An even count averages the two middle values.
func MedianTotal(totals []float64, minTotal float64) (float64, error) {
	ref := make([]float64, 0, len(totals))
	for _, t := range totals {
		if t < minTotal {
			continue
		}
		if t == 0 {
			t = 1
		}
		ref = append(ref, t)
	}
	return Median(ref)
}

// Median returns the median of values without filtering, averaging the two
// middle values for an even count. values is not modified.
//
// Errors: ErrNoReferenceRows for an empty slice.
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoReferenceRows
	}
	ref := slices.Clone(values)
	slices.Sort(ref)
	mid := len(ref) / 2
	if len(ref)%2 == 1 {
		return ref[mid], nil
	}
	return (ref[mid-1] + ref[mid]) / 2, nil
}
