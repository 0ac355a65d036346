// Package downsample reduces the total count of matrix rows to a target by
// seeded resampling of the individual counts.
//
// Row is the inner loop: cumulative sums over the row, `target` uniform draws
// from [0, total) (with or without replacement), an ascending sort, and a
// two-pointer walk assigning each draw to the first bin whose cumulative sum
// exceeds it. It runs in O(target·log(target) + len(row)).
//
// Counts applies Row to every row of a matrix whose total exceeds the target.
// Every row draws from its own generator derived from (seed, row index), so a
// dense matrix and its CSR form produce the same counts. CSR rows are rewritten
// through their stored entries only; entries that drop to zero stay stored.
package downsample
