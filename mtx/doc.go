// Package mtx reads and writes count matrices in the Matrix Market exchange
// format.
//
// Read accepts the coordinate layout with real, integer or pattern fields and
// general symmetry, plus the dense array layout with real or integer fields.
// Input may be plain, gzip or zstd compressed; the compression is detected
// from the stream's magic bytes. Coordinate input is returned as *matrix.CSR,
// array input as *matrix.Dense.
//
// Write always emits the coordinate layout with real fields. WriteFile picks
// the compression from the file extension (".gz", ".zst").
package mtx
