// SPDX-License-Identifier: MIT

// Package matrix: element-wise kernel table.
//
// The active kernel set is chosen at build time:
//   - default build: gonum/floats (assembly-backed on supported platforms),
//   - `-tags purego`: plain Go loops.
//
// Both sets only perform independent per-element operations, so results are
// bit-identical between backends. Reductions (sums) are NOT routed through the
// table and always run as ordered scalar loops for reproducibility.
package matrix

// kernelSet groups the in-place slice kernels used by Dense and CSR fast paths.
type kernelSet struct {
	name  string
	scale func(alpha float64, dst []float64) // dst[i] *= alpha
	mul   func(dst, s []float64)             // dst[i] *= s[i]
	sub   func(dst, s []float64)             // dst[i] -= s[i]
}

// Backend reports the name of the kernel set compiled into this binary.
func Backend() string { return kernels.name }
