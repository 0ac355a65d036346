// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Mask is a per-row or per-column keep flag. len(Mask) equals the axis length.
type Mask []bool

// NewMask returns a mask of length n with every entry set to keep.
func NewMask(n int, keep bool) Mask {
	m := make(Mask, n)
	if keep {
		for i := range m {
			m[i] = true
		}
	}

	return m
}

// Count returns the number of kept entries.
func (m Mask) Count() int {
	n := 0
	for _, k := range m {
		if k {
			n++
		}
	}

	return n
}

// Indices returns the kept positions in ascending order.
func (m Mask) Indices() []int {
	out := make([]int, 0, m.Count())
	for i, k := range m {
		if k {
			out = append(out, i)
		}
	}

	return out
}

// Bitmap returns the kept positions as a roaring bitmap.
func (m Mask) Bitmap() *roaring.Bitmap {
	bm := roaring.New()
	for i, k := range m {
		if k {
			bm.Add(uint32(i))
		}
	}

	return bm
}

// And keeps an entry only when both masks keep it.
// Errors: ErrDimensionMismatch when lengths differ.
func (m Mask) And(o Mask) (Mask, error) {
	if len(m) != len(o) {
		return nil, matrixErrorf("Mask.And", ErrDimensionMismatch)
	}
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] && o[i]
	}

	return out, nil
}

// MaskFromBitmap expands bm into a dense mask of length n.
// Errors: ErrOutOfRange when bm holds a position >= n.
func MaskFromBitmap(n int, bm *roaring.Bitmap) (Mask, error) {
	out := make(Mask, n)
	it := bm.Iterator()
	for it.HasNext() {
		v := int(it.Next())
		if v >= n {
			return nil, matrixErrorf("MaskFromBitmap", fmt.Errorf("position %d: %w", v, ErrOutOfRange))
		}
		out[v] = true
	}

	return out, nil
}

// BitmapIndices returns the members of bm as ascending ints.
func BitmapIndices(bm *roaring.Bitmap) []int {
	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}

	return out
}

// SelectRowsMask keeps the rows flagged by mask.
func SelectRowsMask(m Matrix, mask Mask) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("SelectRowsMask", err)
	}
	if len(mask) != m.Rows() {
		return nil, matrixErrorf("SelectRowsMask", ErrDimensionMismatch)
	}

	return m.SelectRows(mask.Indices())
}

// SelectColsMask keeps the columns flagged by mask.
func SelectColsMask(m Matrix, mask Mask) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("SelectColsMask", err)
	}
	if len(mask) != m.Cols() {
		return nil, matrixErrorf("SelectColsMask", ErrDimensionMismatch)
	}

	return m.SelectCols(mask.Indices())
}
