// SPDX-License-Identifier: MIT

package subsample

import (
	"errors"
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/countprep/internal/rng"
	"github.com/katalvlaran/countprep/matrix"
)

var (
	// ErrInvalidFraction is returned for a fraction outside [0, 1].
	ErrInvalidFraction = errors.New("subsample: fraction must be within [0, 1]")

	// ErrInvalidCount is returned for a count outside [0, total].
	ErrInvalidCount = errors.New("subsample: count must be within [0, total]")
)

// Size says how many rows to keep. Build one with Fraction or Count.
type Size struct {
	fraction float64
	count    int
	isCount  bool
}

// Fraction keeps round(f·total) rows.
func Fraction(f float64) Size { return Size{fraction: f} }

// Count keeps exactly n rows.
func Count(n int) Size { return Size{count: n, isCount: true} }

// resolve returns the number of rows to draw out of total.
func (s Size) resolve(total int) (int, error) {
	if s.isCount {
		if s.count < 0 || s.count > total {
			return 0, fmt.Errorf("count %d of %d: %w", s.count, total, ErrInvalidCount)
		}
		return s.count, nil
	}
	if math.IsNaN(s.fraction) || s.fraction < 0 || s.fraction > 1 {
		return 0, fmt.Errorf("fraction %v: %w", s.fraction, ErrInvalidFraction)
	}
	return int(math.Round(s.fraction * float64(total))), nil
}

// Bitmap returns the selected row indices as a roaring bitmap.
//
// Errors: ErrInvalidFraction, ErrInvalidCount; matrix.ErrBadShape for total < 0.
func Bitmap(total int, size Size, seed int64) (*roaring.Bitmap, error) {
	if total < 0 {
		return nil, fmt.Errorf("subsample: total %d: %w", total, matrix.ErrBadShape)
	}
	k, err := size.resolve(total)
	if err != nil {
		return nil, err
	}
	draws, err := rng.Draws(rng.New(seed), int64(total), int64(k), false)
	if err != nil {
		return nil, fmt.Errorf("subsample: %w", err)
	}
	bm := roaring.New()
	for _, d := range draws {
		bm.Add(uint32(d))
	}
	return bm, nil
}

// Rows returns the selected row indices, distinct and ascending.
func Rows(total int, size Size, seed int64) ([]int, error) {
	bm, err := Bitmap(total, size, seed)
	if err != nil {
		return nil, err
	}
	return matrix.BitmapIndices(bm), nil
}

// Matrix returns a copy of the selected rows of m together with their indices.
func Matrix(m matrix.Matrix, size Size, seed int64) (matrix.Matrix, []int, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, nil, fmt.Errorf("subsample.Matrix: %w", err)
	}
	idx, err := Rows(m.Rows(), size, seed)
	if err != nil {
		return nil, nil, err
	}
	out, err := m.SelectRows(idx)
	if err != nil {
		return nil, nil, fmt.Errorf("subsample.Matrix: %w", err)
	}
	return out, idx, nil
}
