// SPDX-License-Identifier: MIT

// Package matrix: domain types shared by both storage representations.
// This file intentionally contains ONLY the public capability surface (Matrix),
// the representation tag (Kind), reduction modes and element functions.
// Errors and options live in dedicated files (errors.go, options.go).
package matrix

import "math"

// Kind tags the storage representation behind a Matrix.
type Kind uint8

const (
	// KindDense is a row-major contiguous buffer (*Dense).
	KindDense Kind = iota + 1
	// KindCSR is compressed sparse row storage (*CSR).
	KindCSR
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindCSR:
		return "csr"
	default:
		return "unknown"
	}
}

// ReduceMode selects the statistic computed by RowReduce / ColReduce.
type ReduceMode uint8

const (
	// ReduceSum totals the stored values.
	ReduceSum ReduceMode = iota
	// ReduceNonzero counts entries whose value != 0. Explicitly stored zeros
	// in a CSR are not counted.
	ReduceNonzero
)

// Axis names the direction of a per-line statistic.
//   - AxisRows: one value per row (reduce across columns).
//   - AxisCols: one value per column (reduce across rows).
type Axis uint8

const (
	AxisRows Axis = iota
	AxisCols
)

// String implements fmt.Stringer.
func (a Axis) String() string {
	if a == AxisCols {
		return "cols"
	}
	return "rows"
}

// ElementFunc maps one stored value to its replacement.
type ElementFunc func(float64) float64

// Log1p is the natural log of (1 + x). Zero-preserving.
func Log1p(x float64) float64 { return math.Log1p(x) }

// Sqrt is the square root of x. Zero-preserving.
func Sqrt(x float64) float64 { return math.Sqrt(x) }

// Matrix is the capability set every storage representation exposes.
// Preprocessing code is written once against this interface; representation
// specific fast paths live behind the methods.
//
// Contract:
//   - Read-only methods never mutate the receiver.
//   - RowScale/ColScale/ApplyZeroPreserving mutate the receiver in place.
//   - SelectRows/SelectCols/Clone/ToDense always return independent storage.
//   - RowSlice shares storage with the receiver (writes propagate).
type Matrix interface {
	// Rows returns the number of rows. Complexity: O(1).
	Rows() int

	// Cols returns the number of columns. Complexity: O(1).
	Cols() int

	// Kind reports the storage representation. Complexity: O(1).
	Kind() Kind

	// At reads one element; ErrOutOfRange on invalid indices.
	// Complexity: O(1) for Dense, O(nnz(row)) for CSR.
	At(i, j int) (float64, error)

	// RowReduce returns one statistic per row (length Rows()).
	RowReduce(mode ReduceMode) []float64

	// ColReduce returns one statistic per column (length Cols()).
	ColReduce(mode ReduceMode) []float64

	// RowScale multiplies every value of row i by f[i].
	// ErrDimensionMismatch when len(f) != Rows().
	RowScale(f []float64) error

	// ColScale multiplies every value of column j by f[j].
	// ErrDimensionMismatch when len(f) != Cols().
	ColScale(f []float64) error

	// ApplyZeroPreserving replaces each stored value v by fn(v).
	// For CSR, fn(0) must be 0 (ErrNotZeroPreserving otherwise).
	ApplyZeroPreserving(fn ElementFunc) error

	// SelectRows copies the given rows, in the given order.
	SelectRows(idx []int) (Matrix, error)

	// SelectCols copies the given columns, in the given order.
	SelectCols(idx []int) (Matrix, error)

	// RowSlice returns rows [start, end) sharing storage with the receiver.
	RowSlice(start, end int) (Matrix, error)

	// ToDense materializes an independent dense copy.
	ToDense() *Dense

	// Clone returns a deep copy in the same representation.
	Clone() Matrix
}

// Reduce dispatches to RowReduce or ColReduce according to axis.
func Reduce(m Matrix, axis Axis, mode ReduceMode) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("Reduce", err)
	}
	if axis == AxisCols {
		return m.ColReduce(mode), nil
	}
	return m.RowReduce(mode), nil
}
