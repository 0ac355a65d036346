// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels/facades minimal by delegating shape/nil/index checks here.
//  - Return tagged sentinel errors so call sites can match with errors.Is.
//
// Determinism & Performance:
//  - All checks are pure and deterministic.
//  - ValidateSelection allocates one seen-bitmap of length n.
//  - ValidateCSR runs O(rows + cols + nnz) over the layout only.

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil – Ensures the matrix reference is non-nil.
//
// Returns ErrNilMatrix if m == nil.
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape – Ensures matrices a and b have equal dimensions.
//
// Implementation: Assumes a and b are not nil (caller must ensure).
// Complexity: O(1).
func ValidateSameShape(a, b Matrix) error {
	if a.Rows() != b.Rows() {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if a.Cols() != b.Cols() {
		return validatorErrorf("ValidateSameShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateVecLen ensures the factor vector length matches the required size n.
// Time: O(1). Space: O(1).
func ValidateVecLen(x []float64, n int) error {
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSelection checks that every index lies in [0, n) and appears once.
// Complexity: O(len(idx) + n) time, O(n) space.
func ValidateSelection(idx []int, n int) error {
	seen := make([]bool, n)
	for _, k := range idx {
		if k < 0 || k >= n {
			return validatorErrorf("ValidateSelection", ErrOutOfRange)
		}
		if seen[k] {
			return validatorErrorf("ValidateSelection", ErrDuplicateIndex)
		}
		seen[k] = true
	}

	return nil
}

// ValidateRowRange checks 0 <= start <= end <= rows.
func ValidateRowRange(start, end, rows int) error {
	if start < 0 || end < start || end > rows {
		return validatorErrorf("ValidateRowRange", ErrOutOfRange)
	}

	return nil
}

// ValidateFinite rejects NaN and ±Inf values.
// Complexity: O(len(x)).
func ValidateFinite(x []float64) error {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return validatorErrorf("ValidateFinite", ErrNaNInf)
		}
	}

	return nil
}

// ValidateCSR enforces the compressed-sparse-row structural contract:
//   - len(indptr) == rows+1 and indptr[0] == 0
//   - indptr is monotone non-decreasing
//   - indptr[rows] == len(indices) == len(data)
//   - every column index lies in [0, cols)
//   - no column appears twice within a row
//
// Complexity: O(rows + cols + nnz).
func ValidateCSR(rows, cols int, indptr, indices []int, data []float64) error {
	if rows < 0 || cols < 0 {
		return validatorErrorf("ValidateCSR: shape", ErrInvalidDimensions)
	}
	if len(indptr) != rows+1 || indptr[0] != 0 {
		return validatorErrorf("ValidateCSR: indptr length", ErrMalformedCSR)
	}
	for i := 0; i < rows; i++ {
		if indptr[i+1] < indptr[i] {
			return validatorErrorf("ValidateCSR: indptr order", ErrMalformedCSR)
		}
	}
	nnz := indptr[rows]
	if len(indices) != nnz || len(data) != nnz {
		return validatorErrorf("ValidateCSR: nnz", ErrMalformedCSR)
	}
	// lastRow[j] holds 1 + the last row that stored column j.
	lastRow := make([]int, cols)
	for i := 0; i < rows; i++ {
		for _, j := range indices[indptr[i]:indptr[i+1]] {
			if j < 0 || j >= cols {
				return validatorErrorf("ValidateCSR: column index", ErrMalformedCSR)
			}
			if lastRow[j] == i+1 {
				return validatorErrorf("ValidateCSR: duplicate entry", ErrMalformedCSR)
			}
			lastRow[j] = i + 1
		}
	}

	return nil
}
