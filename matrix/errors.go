// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All operations MUST return these sentinels and tests MUST check them
// via errors.Is. No operation should panic on user-triggered error conditions.

package matrix

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. Context is attached with matrixErrorf/denseErrorf/
// csrErrorf via %w so callers can still match with errors.Is.
//
// ERROR PRIORITY (documented, enforced in tests):
// nil -> shape/index -> structural (CSR layout) -> NaN/Inf -> capability.

var (
	// ErrBadShape is returned when a requested shape or chunk size is invalid.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrInvalidDimensions indicates that requested matrix dimensions are negative
	// (or non-positive for the public dense constructor).
	ErrInvalidDimensions = errors.New("matrix: invalid dimensions")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDuplicateIndex signals a repeated index in a row/column selection.
	ErrDuplicateIndex = errors.New("matrix: duplicate index in selection")

	// ErrDimensionMismatch indicates incompatible lengths between a matrix and
	// a factor vector, mask, data buffer or second operand.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrMalformedCSR signals a CSR layout that violates its structural contract:
	// len(indptr) == rows+1, indptr[0] == 0, indptr monotone non-decreasing,
	// indptr[rows] == len(indices) == len(data), every index in [0, cols),
	// at most one entry per (row, column).
	ErrMalformedCSR = errors.New("matrix: malformed CSR layout")

	// ErrNaNInf signals a NaN or ±Inf value was encountered where finite values
	// are required by the numeric policy.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrNotZeroPreserving is returned when a function with fn(0) != 0 is applied
	// to a sparse matrix, where it would densify implicit zeros.
	ErrNotZeroPreserving = errors.New("matrix: function does not map zero to zero")

	// ErrUnsupported marks an operation that the concrete representation cannot
	// perform (e.g., an unknown Matrix implementation in a kind switch).
	ErrUnsupported = errors.New("matrix: operation not supported for this representation")
)

// matrixErrorf wraps a sentinel with the package-level operation tag.
func matrixErrorf(op string, err error) error {
	return fmt.Errorf("matrix.%s: %w", op, err)
}
