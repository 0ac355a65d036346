// SPDX-License-Identifier: MIT

package matrix

// Test-Bridge (White-Box) for private kernels and the options snapshot.
//
// Purpose:
//   - Expose the active kernel table and resolved Options to matrix_test ONLY.
//   - Let external tests pin default values and check both backends agree with
//     plain loops, without widening the production API.
//
// Maintenance:
//   - Keep OptionsSnapshot in sync with Options; tests catch drift.

// OptionsSnapshot is a read-only copy of resolved Options.
type OptionsSnapshot struct {
	ValidateNaNInf bool
	ChunkSize      int
}

// GatherOptionsSnapshot_TestOnly resolves opts exactly like constructors do.
func GatherOptionsSnapshot_TestOnly(opts ...Option) OptionsSnapshot {
	o := gatherOptions(opts...)
	return OptionsSnapshot{ValidateNaNInf: o.validateNaNInf, ChunkSize: o.chunkSize}
}

// KernelScale_TestOnly runs the active scale kernel on dst.
func KernelScale_TestOnly(alpha float64, dst []float64) { kernels.scale(alpha, dst) }

// KernelMul_TestOnly runs the active element-wise multiply kernel on dst.
func KernelMul_TestOnly(dst, s []float64) { kernels.mul(dst, s) }

// KernelSub_TestOnly runs the active element-wise subtract kernel on dst.
func KernelSub_TestOnly(dst, s []float64) { kernels.sub(dst, s) }
