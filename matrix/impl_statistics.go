// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide the column statistics used by scaling and regression
//     (mean, Bessel-corrected variance) and column centering.
//   - Work on both representations: CSR statistics only visit stored entries,
//     implicit zeros contribute nothing to the sums but count toward n.
//
// Exposed API:
//   - ColMeanVar(X)      -> (means, variances) // var = (E[x²] − E[x]²)·n/(n−1)
//   - CenterColumns(X)   -> means             // in-place, Dense only
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - One pass accumulates Σx and Σx² per column.

package matrix

import "fmt"

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opColMeanVar    = "ColMeanVar"
	opCenterColumns = "CenterColumns"
)

// ColMeanVar returns the per-column mean and unbiased variance.
// MAIN DESCRIPTION:
//   - mean_j = Σ_i x_ij / n
//   - var_j  = (Σ_i x_ij²/n − mean_j²) · n/(n−1)
//
// Behavior highlights:
//   - The moment form can go slightly negative under cancellation for
//     near-constant columns; callers treating var==0 specially should clamp.
//
// Errors:
//   - ErrNilMatrix; ErrBadShape when Rows() < 2 (variance undefined).
//
// Complexity:
//   - Dense O(r*c); CSR O(nnz + c).
func ColMeanVar(X Matrix) ([]float64, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opColMeanVar, err)
	}
	n := X.Rows()
	if n < 2 {
		return nil, nil, matrixErrorf(opColMeanVar, fmt.Errorf("rows=%d: %w", n, ErrBadShape))
	}
	c := X.Cols()
	sum := make([]float64, c)
	sumSq := make([]float64, c)

	switch t := X.(type) {
	case *Dense:
		var i, j, base int
		for i = 0; i < t.r; i++ {
			base = i * t.c
			for j = 0; j < t.c; j++ {
				v := t.data[base+j]
				sum[j] += v
				sumSq[j] += v * v
			}
		}
	case *CSR:
		for k, j := range t.indices {
			v := t.data[k]
			sum[j] += v
			sumSq[j] += v * v
		}
	default:
		// Generic fallback through At; keeps unknown implementations usable.
		for i := 0; i < n; i++ {
			for j := 0; j < c; j++ {
				v, err := X.At(i, j)
				if err != nil {
					return nil, nil, matrixErrorf(opColMeanVar, err)
				}
				sum[j] += v
				sumSq[j] += v * v
			}
		}
	}

	fn := float64(n)
	bessel := fn / (fn - 1)
	mean := make([]float64, c)
	variance := make([]float64, c)
	for j := 0; j < c; j++ {
		mean[j] = sum[j] / fn
		variance[j] = (sumSq[j]/fn - mean[j]*mean[j]) * bessel
	}

	return mean, variance, nil
}

// CenterColumns subtracts the per-column mean from X in place and returns the means.
// Zero-size matrices are a no-op with zero means.
//
// Errors: ErrNilMatrix.
func CenterColumns(X *Dense) ([]float64, error) {
	if X == nil {
		return nil, matrixErrorf(opCenterColumns, ErrNilMatrix)
	}
	means := X.ColReduce(ReduceSum)
	if X.r == 0 {
		return means, nil
	}
	n := float64(X.r)
	for j := range means {
		means[j] /= n
	}
	if err := X.SubCols(means); err != nil {
		return nil, matrixErrorf(opCenterColumns, err)
	}

	return means, nil
}
