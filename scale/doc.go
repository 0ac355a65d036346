// Package scale standardizes the columns of a matrix to unit variance and,
// optionally, zero mean.
//
// Column statistics come from matrix.ColMeanVar (Bessel-corrected variance).
// Zero-centering needs dense storage: a CSR input with zero-centering enabled
// is rejected with ErrCannotCenterSparse, and densifying first is the caller's
// explicit decision. Without centering, CSR columns are scaled in place
// through their stored values only.
package scale
