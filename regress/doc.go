// Package regress removes linear covariate effects from every column of a
// dense matrix and keeps the ordinary-least-squares residuals.
//
// Two designs are supported:
//   - numeric: an intercept column of ones followed by k numeric covariates,
//     shared by every feature column (Intercept() is the k = 0 case);
//   - categorical: per feature column, [1, mean of that column within the
//     row's group].
//
// Columns are split into contiguous chunks of ceil(min(1000, cols)/P) and the
// chunks run on a workpool.Pool of P workers. A rank-deficient design for a
// column produces an all-zero residual and a warning; it never fails the batch.
// When the pool has no capacity the chunks run sequentially instead.
package regress
