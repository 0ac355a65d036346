// Package matrix offers the count-matrix storage layer used by every
// preprocessing step.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 buffer with safe accessors.
//   - CSR, compressed sparse row storage for count data that is mostly zero.
//   - Matrix, the capability interface (reductions, row/column scaling,
//     zero-preserving transforms, selection, densification) that lets
//     algorithms be written once for both representations.
//   - Row chunking (RowChunks, ChunkedApply) with storage shared with the parent.
//   - Mask, keep flags convertible to roaring bitmaps.
//   - Column statistics (ColMeanVar, CenterColumns).
//
// Element-wise kernels run on gonum/floats by default; building with
// `-tags purego` swaps them for plain loops with identical results.
package matrix
