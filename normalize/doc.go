// Package normalize rescales every row of a count matrix to a common total.
//
// Rows is the standard per-row total normalization: each row is multiplied by
// target/total, where the target defaults to the median total of the rows that
// meet a minimum. Row scaling goes through matrix.Matrix.RowScale, so CSR input
// is never densified. The target actually used is returned so that the same
// scaling can be replayed on auxiliary layers.
//
// ExcludingDominant is the variant that ignores columns which make up more
// than a given fraction of any row's total when computing that row's total.
package normalize
