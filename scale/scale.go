// SPDX-License-Identifier: MIT

package scale

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/countprep/matrix"
)

var (
	// ErrCannotCenterSparse is returned when zero-centering is requested on CSR input.
	ErrCannotCenterSparse = errors.New("scale: cannot zero-center a sparse matrix; densify it first")

	// ErrTooFewRows is returned when the variance is undefined (fewer than 2 rows).
	ErrTooFewRows = errors.New("scale: at least 2 rows are required")
)

// Stats reports the column statistics Apply used.
type Stats struct {
	Mean     []float64 // column means before scaling
	Variance []float64 // Bessel-corrected column variances
	Scale    []float64 // divisor applied per column (sqrt(var), 1 for zero variance)
	Constant []int     // columns whose variance was zero (left unscaled)
}

// Apply standardizes the columns of m.
//
// Behavior highlights:
//   - var = (mean(x²) − mean(x)²)·n/(n−1); scale = sqrt(var).
//   - Columns with var <= 0 keep scale 1 (centered but not rescaled).
//   - Zero-centering subtracts the mean (Dense only) and divides by scale.
//   - Without centering, values are divided by scale in place (Dense or CSR).
//   - WithClipMax caps values above the bound after scaling.
//   - Without WithCopy(true), m is modified in place and returned.
//
// Errors: matrix.ErrNilMatrix; ErrTooFewRows; ErrCannotCenterSparse;
// matrix.ErrNotZeroPreserving for a negative clip bound on CSR.
func Apply(m matrix.Matrix, opts ...Option) (matrix.Matrix, Stats, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, Stats{}, fmt.Errorf("scale.Apply: %w", err)
	}
	o := gatherOptions(opts...)
	if m.Rows() < 2 {
		return nil, Stats{}, fmt.Errorf("scale.Apply: rows=%d: %w", m.Rows(), ErrTooFewRows)
	}
	if o.zeroCenter && m.Kind() != matrix.KindDense {
		return nil, Stats{}, fmt.Errorf("scale.Apply: %s input: %w", m.Kind(), ErrCannotCenterSparse)
	}

	mean, variance, err := matrix.ColMeanVar(m)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("scale.Apply: %w", err)
	}
	st := Stats{Mean: mean, Variance: variance, Scale: make([]float64, len(variance))}
	inv := make([]float64, len(variance))
	for j, v := range variance {
		if v > 0 {
			st.Scale[j] = math.Sqrt(v)
		} else {
			st.Scale[j] = 1
			st.Constant = append(st.Constant, j)
		}
		inv[j] = 1 / st.Scale[j]
	}
	if len(st.Constant) > 0 {
		o.logger.Debug("constant columns left unscaled", zap.Int("count", len(st.Constant)))
	}

	out := m
	if o.copy {
		out = m.Clone()
	}
	if o.zeroCenter {
		d, ok := out.(*matrix.Dense)
		if !ok {
			return nil, Stats{}, fmt.Errorf("scale.Apply: %w", matrix.ErrUnsupported)
		}
		if err = d.SubCols(mean); err != nil {
			return nil, Stats{}, fmt.Errorf("scale.Apply: %w", err)
		}
	}
	if err = out.ColScale(inv); err != nil {
		return nil, Stats{}, fmt.Errorf("scale.Apply: %w", err)
	}
	if o.clip {
		if err = matrix.ClipMax(out, o.clipMax); err != nil {
			return nil, Stats{}, fmt.Errorf("scale.Apply: clip: %w", err)
		}
	}

	return out, st, nil
}
