// SPDX-License-Identifier: MIT

package scale_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/countprep/matrix"
	"github.com/katalvlaran/countprep/scale"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func dense(t *testing.T, r, c int, data ...float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewDenseFrom(r, c, data)
	require.NoError(t, err)
	return d
}

// TestApplyZeroCenterUnitVariance checks post-scale mean ≈ 0 and variance ≈ 1.
func TestApplyZeroCenterUnitVariance(t *testing.T) {
	m := dense(t, 4, 2, 1, 10, 2, 20, 3, 25, 10, 5)
	out, st, err := scale.Apply(m, scale.WithCopy(true))
	require.NoError(t, err)
	require.Empty(t, st.Constant)

	mean, variance, err := matrix.ColMeanVar(out)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0, 0}, mean, 1e-12)
	require.InDeltaSlice(t, []float64{1, 1}, variance, 1e-12)

	// input untouched
	v, _ := m.At(3, 0)
	require.Equal(t, 10.0, v)
}

// TestApplySparse covers the sparse restrictions and the no-centering path.
func TestApplySparse(t *testing.T) {
	base := dense(t, 3, 2, 1, 0, 0, 2, 3, 4)
	s := matrix.CSRFromDense(base)

	_, _, err := scale.Apply(s)
	require.ErrorIs(t, err, scale.ErrCannotCenterSparse)

	gotS, st, err := scale.Apply(s, scale.WithZeroCenter(false), scale.WithCopy(true))
	require.NoError(t, err)
	require.Equal(t, matrix.KindCSR, gotS.Kind())
	gotD, _, err := scale.Apply(base, scale.WithZeroCenter(false), scale.WithCopy(true))
	require.NoError(t, err)

	ok, err := matrix.AllClose(gotS, gotD, 1e-12, 0)
	require.NoError(t, err)
	require.True(t, ok)

	// column 0 = {1,0,3}: var = (10/3 − 16/9)·3/2 = 7/3
	require.InDelta(t, 7.0/3, st.Variance[0], 1e-12)
	v, _ := gotS.At(2, 0)
	require.InDelta(t, 3/math.Sqrt(7.0/3), v, 1e-12)
}

// TestApplyClipAndConstantColumns checks the upper clip and zero-variance handling.
func TestApplyClipAndConstantColumns(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := dense(t, 4, 2, 0, 5, 0, 5, 0, 5, 100, 5)
	out, st, err := scale.Apply(m, scale.WithClipMax(1), scale.WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.Equal(t, []int{1}, st.Constant)
	require.Equal(t, 1.0, st.Scale[1])
	require.Equal(t, 1, logs.FilterMessage("constant columns left unscaled").Len())

	d := out.ToDense().RawData()
	require.Equal(t, 1.0, d[6])      // (100 − 25)/sd clipped to 1
	require.Less(t, d[0], 0.0)       // no lower clip
	require.Equal(t, 0.0, d[1])      // constant column centered, not scaled
	require.False(t, math.IsNaN(d[3]))
}

func TestApplyErrors(t *testing.T) {
	_, _, err := scale.Apply(dense(t, 1, 2, 1, 2))
	require.ErrorIs(t, err, scale.ErrTooFewRows)
	_, _, err = scale.Apply(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
	require.Panics(t, func() { scale.WithClipMax(math.NaN()) })
}

func TestZScore(t *testing.T) {
	m := dense(t, 2, 2, 1, 3, 3, 3)
	z, err := scale.ZScore(m)
	require.NoError(t, err)
	// column 0: mean 2, population std 1
	require.InDeltaSlice(t, []float64{-1 / 1.0001, 0, 1 / 1.0001, 0}, z.RawData(), 1e-12)
}
