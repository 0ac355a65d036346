// SPDX-License-Identifier: MIT

package downsample

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/katalvlaran/countprep/internal/rng"
)

var (
	// ErrTargetNotBelowTotal is returned by Row when target >= the row total.
	// Callers must pass rows at or under the target through unchanged.
	ErrTargetNotBelowTotal = errors.New("downsample: target must be below the row total")

	// ErrNonInteger is returned for values that are not non-negative integers.
	ErrNonInteger = errors.New("downsample: counts must be non-negative integers")

	// ErrInvalidTarget is returned for a negative target.
	ErrInvalidTarget = errors.New("downsample: target must be >= 0")
)

// Row returns a new vector of len(counts) that sums to target, obtained by
// drawing target of the row's individual counts uniformly at random.
//
// A nil r draws from rng.New(0).
//
// Errors: ErrInvalidTarget; ErrNonInteger for negative counts;
// ErrTargetNotBelowTotal when target >= Σcounts.
func Row(counts []int64, target int64, replace bool, r *rand.Rand) ([]int64, error) {
	if r == nil {
		r = rng.New(0)
	}
	out := make([]int64, len(counts))
	if err := rowInto(out, counts, target, replace, r); err != nil {
		return nil, err
	}
	return out, nil
}

// rowInto is Row writing into out (len(out) == len(counts); out may alias counts).
func rowInto(out, counts []int64, target int64, replace bool, r *rand.Rand) error {
	if target < 0 {
		return fmt.Errorf("target %d: %w", target, ErrInvalidTarget)
	}
	cum := make([]int64, len(counts))
	var total int64
	for i, c := range counts {
		if c < 0 {
			return fmt.Errorf("position %d value %d: %w", i, c, ErrNonInteger)
		}
		total += c
		cum[i] = total
	}
	if target >= total {
		return fmt.Errorf("target %d, total %d: %w", target, total, ErrTargetNotBelowTotal)
	}

	draws, err := rng.SortedDraws(r, total, target, replace)
	if err != nil {
		return err
	}
	clear(out)
	bin := 0
	for _, d := range draws {
		for d >= cum[bin] {
			bin++
		}
		out[bin]++
	}
	return nil
}
