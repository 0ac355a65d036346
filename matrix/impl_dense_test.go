// SPDX-License-Identifier: MIT

// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface in the matrix package.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/countprep/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)                      // attempt to create with zero rows
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions

	_, err = matrix.NewDense(5, 0)                       // attempt to create with zero columns
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions
}

// TestNewDenseFrom covers adoption, length mismatch and the finite-only policy.
func TestNewDenseFrom(t *testing.T) {
	buf := []float64{1, 2, 3, 4}
	d, err := matrix.NewDenseFrom(2, 2, buf)
	require.NoError(t, err)
	buf[3] = 9 // adopted, not copied
	v, err := d.At(1, 1)
	require.NoError(t, err)
	require.Equal(t, 9.0, v)

	_, err = matrix.NewDenseFrom(2, 2, []float64{1, 2, 3})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewDenseFrom(1, 2, []float64{1, math.NaN()})
	require.ErrorIs(t, err, matrix.ErrNaNInf)

	_, err = matrix.NewDenseFrom(1, 2, []float64{1, math.Inf(1)}, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)

	empty, err := matrix.NewDenseFrom(0, 3, nil)
	require.NoError(t, err)
	require.Equal(t, 0, empty.Rows())
	require.Equal(t, 3, empty.Cols())
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(2, 0, 1.23), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 4.56), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
}

// TestDenseReduce checks per-row and per-column sums and nonzero counts.
func TestDenseReduce(t *testing.T) {
	r, c, data := countsFixture()
	d := MustDense(t, r, c, data...)

	require.Equal(t, []float64{3, 0, 4, 5}, d.RowReduce(matrix.ReduceSum))
	require.Equal(t, []float64{2, 0, 2, 1}, d.RowReduce(matrix.ReduceNonzero))
	require.Equal(t, []float64{9, 0, 3}, d.ColReduce(matrix.ReduceSum))
	require.Equal(t, []float64{3, 0, 2}, d.ColReduce(matrix.ReduceNonzero))
}

// TestDenseScale verifies in-place broadcasting and length checks.
func TestDenseScale(t *testing.T) {
	d := MustDense(t, 2, 2, 1, 2, 3, 4)
	require.NoError(t, d.RowScale([]float64{2, 0.5}))
	requireDenseEqual(t, []float64{2, 4, 1.5, 2}, d)

	require.NoError(t, d.ColScale([]float64{1, 10}))
	requireDenseEqual(t, []float64{2, 40, 1.5, 20}, d)

	require.ErrorIs(t, d.RowScale([]float64{1}), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, d.ColScale([]float64{1, 2, 3}), matrix.ErrDimensionMismatch)
}

// TestDenseSelect covers row/column selection order, copies and index errors.
func TestDenseSelect(t *testing.T) {
	d := MustDense(t, 3, 2, 1, 2, 3, 4, 5, 6)

	rows, err := d.SelectRows([]int{2, 0})
	require.NoError(t, err)
	requireDenseEqual(t, []float64{5, 6, 1, 2}, rows)

	cols, err := d.SelectCols([]int{1})
	require.NoError(t, err)
	requireDenseEqual(t, []float64{2, 4, 6}, cols)

	none, err := d.SelectRows(nil)
	require.NoError(t, err)
	require.Equal(t, 0, none.Rows())
	require.Equal(t, 2, none.Cols())

	_, err = d.SelectRows([]int{3})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = d.SelectCols([]int{0, 0})
	require.ErrorIs(t, err, matrix.ErrDuplicateIndex)

	// selections are independent copies
	require.NoError(t, rows.(*matrix.Dense).Set(0, 0, -1))
	v, _ := d.At(2, 0)
	require.Equal(t, 5.0, v)
}

// TestDenseRowSliceSharesStorage verifies RowSlice writes through to the parent.
func TestDenseRowSliceSharesStorage(t *testing.T) {
	d := MustDense(t, 3, 2, 1, 2, 3, 4, 5, 6)
	s, err := d.RowSlice(1, 3)
	require.NoError(t, err)
	require.Equal(t, 2, s.Rows())

	require.NoError(t, s.ApplyZeroPreserving(func(v float64) float64 { return v * 10 }))
	requireDenseEqual(t, []float64{1, 2, 30, 40, 50, 60}, d)

	_, err = d.RowSlice(2, 1)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestDenseApplyPolicy ensures non-finite results are rejected under the policy.
func TestDenseApplyPolicy(t *testing.T) {
	d := MustDense(t, 1, 2, 1, -2)
	err := d.ApplyZeroPreserving(matrix.Log1p)
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

// TestCloneIndependence verifies Clone returns an independent copy.
func TestCloneIndependence(t *testing.T) {
	d := MustDense(t, 1, 2, 1, 2)
	c := d.Clone().(*matrix.Dense)
	require.NoError(t, c.Set(0, 0, 7))
	v, _ := d.At(0, 0)
	require.Equal(t, 1.0, v)
	require.Equal(t, matrix.KindDense, c.Kind())
	require.Equal(t, "[1, 2]\n", d.String())
}
