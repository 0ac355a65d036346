// SPDX-License-Identifier: MIT

package filter

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/countprep/matrix"
)

var (
	// ErrConflictingCriteria is returned when more than one knob is set.
	ErrConflictingCriteria = errors.New("filter: only one of min/max counts and min/max nonzero may be set")

	// ErrNoCriterion is returned when no knob is set.
	ErrNoCriterion = errors.New("filter: one of min/max counts and min/max nonzero must be set")
)

// Bound selects the comparison direction.
type Bound uint8

const (
	// BoundMin keeps entries with stat >= value.
	BoundMin Bound = iota
	// BoundMax keeps entries with stat <= value.
	BoundMax
)

// String implements fmt.Stringer.
func (b Bound) String() string {
	if b == BoundMax {
		return "max"
	}
	return "min"
}

// ByAxis reduces m along axis with mode and compares every statistic to value.
//
// Returns the keep mask (len = Rows() for AxisRows, Cols() for AxisCols) and the
// statistic vector, untouched by the comparison.
//
// Errors: matrix.ErrNilMatrix.
func ByAxis(m matrix.Matrix, axis matrix.Axis, bound Bound, value float64, mode matrix.ReduceMode) (matrix.Mask, []float64, error) {
	stat, err := matrix.Reduce(m, axis, mode)
	if err != nil {
		return nil, nil, fmt.Errorf("filter.ByAxis: %w", err)
	}

	return Compare(stat, bound, value), stat, nil
}

// Compare applies one bound to a precomputed statistic vector.
func Compare(stat []float64, bound Bound, value float64) matrix.Mask {
	mask := make(matrix.Mask, len(stat))
	for i, s := range stat {
		if bound == BoundMax {
			mask[i] = s <= value
		} else {
			mask[i] = s >= value
		}
	}

	return mask
}

// Criteria holds the four mutually exclusive thresholds. Exactly one must be non-nil.
//   - MinCounts / MaxCounts compare the per-line sum.
//   - MinNonzero / MaxNonzero compare the per-line count of nonzero entries
//     (genes expressed per cell, or cells expressing a gene).
type Criteria struct {
	MinCounts  *float64 `mapstructure:"min_counts" yaml:"min_counts"`
	MinNonzero *float64 `mapstructure:"min_nonzero" yaml:"min_nonzero"`
	MaxCounts  *float64 `mapstructure:"max_counts" yaml:"max_counts"`
	MaxNonzero *float64 `mapstructure:"max_nonzero" yaml:"max_nonzero"`
}

// Threshold returns a pointer to v, for building Criteria literals.
func Threshold(v float64) *float64 { return &v }

// Validate enforces exactly one knob.
func (c Criteria) Validate() error {
	n := 0
	for _, p := range []*float64{c.MinCounts, c.MinNonzero, c.MaxCounts, c.MaxNonzero} {
		if p != nil {
			n++
		}
	}
	switch {
	case n == 0:
		return ErrNoCriterion
	case n > 1:
		return ErrConflictingCriteria
	}

	return nil
}

// Resolve maps the single set knob to ByAxis arguments.
func (c Criteria) Resolve() (Bound, float64, matrix.ReduceMode, error) {
	if err := c.Validate(); err != nil {
		return 0, 0, 0, err
	}
	switch {
	case c.MinCounts != nil:
		return BoundMin, *c.MinCounts, matrix.ReduceSum, nil
	case c.MinNonzero != nil:
		return BoundMin, *c.MinNonzero, matrix.ReduceNonzero, nil
	case c.MaxCounts != nil:
		return BoundMax, *c.MaxCounts, matrix.ReduceSum, nil
	default:
		return BoundMax, *c.MaxNonzero, matrix.ReduceNonzero, nil
	}
}

// Apply validates c and runs ByAxis along axis.
// Also returns the reduction mode used, so callers know which annotation the stat is.
func (c Criteria) Apply(m matrix.Matrix, axis matrix.Axis) (matrix.Mask, []float64, matrix.ReduceMode, error) {
	bound, value, mode, err := c.Resolve()
	if err != nil {
		return nil, nil, 0, err
	}
	mask, stat, err := ByAxis(m, axis, bound, value, mode)
	if err != nil {
		return nil, nil, 0, err
	}

	return mask, stat, mode, nil
}
