// SPDX-License-Identifier: MIT

package rng_test

import (
	"testing"

	"github.com/katalvlaran/countprep/internal/rng"
	"github.com/stretchr/testify/require"
)

// TestDeriveIsOrderIndependent checks that a sub-stream depends only on (seed, stream).
func TestDeriveIsOrderIndependent(t *testing.T) {
	a := rng.Derive(42, 7).Int63()
	_ = rng.Derive(42, 3).Int63() // unrelated stream in between
	b := rng.Derive(42, 7).Int63()
	require.Equal(t, a, b)
	require.NotEqual(t, rng.DeriveSeed(42, 7), rng.DeriveSeed(42, 8))
	require.NotEqual(t, rng.DeriveSeed(42, 7), rng.DeriveSeed(43, 7))
}

// TestDrawsWithoutReplacementDistinct verifies Floyd sampling yields k distinct values in range.
func TestDrawsWithoutReplacementDistinct(t *testing.T) {
	r := rng.New(0)
	d, err := rng.SortedDraws(r, 20, 20, false)
	require.NoError(t, err)
	for i, v := range d {
		require.Equal(t, int64(i), v) // k == n ⇒ full population
	}

	d, err = rng.SortedDraws(rng.New(1), 1000, 50, false)
	require.NoError(t, err)
	require.Len(t, d, 50)
	for i := 1; i < len(d); i++ {
		require.Less(t, d[i-1], d[i])
	}
	require.GreaterOrEqual(t, d[0], int64(0))
	require.Less(t, d[len(d)-1], int64(1000))

	_, err = rng.Draws(rng.New(1), 3, 4, false)
	require.ErrorIs(t, err, rng.ErrSampleSize)
}

// TestDrawsSeedDeterminism checks identical seeds reproduce identical draws.
func TestDrawsSeedDeterminism(t *testing.T) {
	a, err := rng.Draws(rng.New(5), 100, 30, true)
	require.NoError(t, err)
	b, err := rng.Draws(rng.New(5), 100, 30, true)
	require.NoError(t, err)
	require.Equal(t, a, b)

	empty, err := rng.Draws(rng.New(5), 100, 0, true)
	require.NoError(t, err)
	require.Empty(t, empty)
}
