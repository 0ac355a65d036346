// Package subsample draws a uniform random subset of matrix rows without
// replacement, sized either by a fraction of the rows or by an absolute count.
package subsample
