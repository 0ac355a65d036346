// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures shared by Dense/CSR tests.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/countprep/matrix"
	"github.com/stretchr/testify/require"
)

// hide wraps any Matrix to hide its concrete type from type switches.
// Use hide{X} to force generic (non-fast-path) code paths.
type hide struct{ matrix.Matrix }

// MustDense adopts data as an r×c *Dense or fails the test.
func MustDense(t *testing.T, r, c int, data ...float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewDenseFrom(r, c, data)
	require.NoError(t, err)

	return d
}

// MustCSR compresses the dense fixture into CSR.
func MustCSR(t *testing.T, r, c int, data ...float64) *matrix.CSR {
	t.Helper()

	return matrix.CSRFromDense(MustDense(t, r, c, data...))
}

// countsFixture is a 4×3 count matrix with one all-zero row and one all-zero column.
//
//	[1 0 2]
//	[0 0 0]
//	[3 0 1]
//	[5 0 0]
func countsFixture() (int, int, []float64) {
	return 4, 3, []float64{
		1, 0, 2,
		0, 0, 0,
		3, 0, 1,
		5, 0, 0,
	}
}

// both returns the fixture in both representations.
func both(t *testing.T) map[string]matrix.Matrix {
	t.Helper()
	r, c, data := countsFixture()

	return map[string]matrix.Matrix{
		"dense": MustDense(t, r, c, append([]float64(nil), data...)...),
		"csr":   MustCSR(t, r, c, append([]float64(nil), data...)...),
	}
}

// requireDenseEqual compares m's dense form against want (row-major).
func requireDenseEqual(t *testing.T, want []float64, m matrix.Matrix) {
	t.Helper()
	require.InDeltaSlice(t, want, m.ToDense().RawData(), 1e-12)
}
