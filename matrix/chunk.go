// SPDX-License-Identifier: MIT

// Package matrix - row chunking.
//
// Chunks are row windows [Start, End) of a parent matrix. Data shares storage
// with the parent (see RowSlice), so in-place transforms on a chunk write
// through to the parent. Chunks are produced in ascending Start order and
// cover every row exactly once.

package matrix

import "fmt"

// Chunk is one row window of a matrix.
type Chunk struct {
	Start int    // first row (inclusive)
	End   int    // last row (exclusive)
	Data  Matrix // rows [Start, End) sharing storage with the parent
}

// ChunkIterator yields consecutive row chunks. Usage mirrors bufio.Scanner:
//
//	it, _ := matrix.RowChunks(m, 1000)
//	for it.Next() {
//		c := it.Chunk()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
type ChunkIterator struct {
	m    Matrix
	size int
	next int
	cur  Chunk
	err  error
}

// RowChunks returns an iterator over chunks of at most size rows.
// Errors: ErrNilMatrix; ErrBadShape when size <= 0.
func RowChunks(m Matrix, size int) (*ChunkIterator, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("RowChunks", err)
	}
	if size <= 0 {
		return nil, matrixErrorf("RowChunks", fmt.Errorf("chunk size %d: %w", size, ErrBadShape))
	}

	return &ChunkIterator{m: m, size: size}, nil
}

// Next advances to the next chunk; false when exhausted or on error.
func (it *ChunkIterator) Next() bool {
	if it.err != nil || it.next >= it.m.Rows() {
		return false
	}
	start := it.next
	end := min(start+it.size, it.m.Rows())
	data, err := it.m.RowSlice(start, end)
	if err != nil {
		it.err = err
		return false
	}
	it.cur = Chunk{Start: start, End: end, Data: data}
	it.next = end

	return true
}

// Chunk returns the current chunk (valid after Next returned true).
func (it *ChunkIterator) Chunk() Chunk { return it.cur }

// Err returns the first error encountered by Next.
func (it *ChunkIterator) Err() error { return it.err }

// ChunkedApply applies fn to m chunk by chunk (WithChunkSize, default
// DefaultChunkSize rows). The result equals m.ApplyZeroPreserving(fn); chunking
// only bounds the working set of each pass.
func ChunkedApply(m Matrix, fn ElementFunc, opts ...Option) error {
	o := gatherOptions(opts...)
	it, err := RowChunks(m, o.chunkSize)
	if err != nil {
		return err
	}
	for it.Next() {
		c := it.Chunk()
		if err = c.Data.ApplyZeroPreserving(fn); err != nil {
			return fmt.Errorf("matrix.ChunkedApply: rows [%d,%d): %w", c.Start, c.End, err)
		}
	}

	return it.Err()
}
