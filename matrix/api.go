// SPDX-License-Identifier: MIT
// Package matrix - public API facades.
//
// Purpose:
//   - Provide thin, well-documented entry points for common tasks across the package.
//   - Avoid any logic duplication - each facade delegates to the canonical implementation.
//   - Keep function names explicit and intention-revealing to improve discoverability.
//
// Determinism & Policy:
//   - Facades never change the loop orders or numeric policy of underlying kernels.
//   - Validation is performed in the kernels; facades only compose or forward.

package matrix

import "math"

// ---------- Constructors & conversions ----------

// NewZeros returns a new zero-initialized *Dense of size rows×cols.
// Thin alias of NewDense with an intention-revealing name.
func NewZeros(rows, cols int) (*Dense, error) {
	return NewDense(rows, cols)
}

// ToCSR returns a CSR copy of m. Dense input keeps only nonzero entries;
// CSR input is cloned as-is (stored zeros survive).
func ToCSR(m Matrix) (*CSR, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("ToCSR", err)
	}
	switch t := m.(type) {
	case *CSR:
		return t.Clone().(*CSR), nil
	case *Dense:
		return CSRFromDense(t), nil
	default:
		return CSRFromDense(m.ToDense()), nil
	}
}

// RowSums returns r[i] = Σ_j m[i,j].
func RowSums(m Matrix) []float64 { return m.RowReduce(ReduceSum) }

// ColSums returns c[j] = Σ_i m[i,j].
func ColSums(m Matrix) []float64 { return m.ColReduce(ReduceSum) }

// ClipMax caps every value above hi at hi, in place. Values below are untouched.
// Zero-preserving for hi >= 0, so CSR input is accepted in that range.
//
// Errors: ErrNaNInf for a NaN bound; ErrNotZeroPreserving for CSR with hi < 0.
func ClipMax(m Matrix, hi float64) error {
	if err := ValidateNotNil(m); err != nil {
		return matrixErrorf("ClipMax", err)
	}
	if math.IsNaN(hi) {
		return matrixErrorf("ClipMax", ErrNaNInf)
	}

	return m.ApplyZeroPreserving(func(v float64) float64 {
		if v > hi {
			return hi
		}
		return v
	})
}

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
// Representations may differ (Dense vs CSR compare by value).
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol| (negative values are normalized).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf("AllClose", ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if err := ValidateNotNil(a); err != nil {
		return false, matrixErrorf("AllClose", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return false, matrixErrorf("AllClose", err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf("AllClose", err)
	}

	da, db := a.ToDense(), b.ToDense()
	for idx := range da.data {
		if math.Abs(da.data[idx]-db.data[idx]) > atol+rtol*math.Abs(db.data[idx]) {
			return false, nil // early-exit on first violation
		}
	}

	return true, nil
}
