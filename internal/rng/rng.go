// SPDX-License-Identifier: MIT

// Package rng - deterministic random generation shared by resampling steps.
//
// Goals:
//   - Determinism: same seed ⇒ identical results across platforms and runs.
//   - Encapsulation: a single generator factory; no time-based sources and no
//     use of the math/rand global source.
//   - Per-call streams: every operation builds its own *rand.Rand from the seed
//     it was given; independent sub-streams (one per row) come from Derive.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Do not share a *rand.Rand across goroutines.
//   - Use Derive to create independent streams for parallel workers or rows.
package rng

import (
	"errors"
	"math/rand"
	"slices"
)

// ErrSampleSize is returned when k draws are requested from fewer than k items.
var ErrSampleSize = errors.New("rng: sample size exceeds population")

// New returns a deterministic *rand.Rand seeded verbatim (seed 0 is a valid seed).
//
// Complexity: O(1).
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a parent seed and a stream identifier into a new 64-bit seed.
//
// A SplitMix64-style avalanche mix removes correlations between neighbouring
// streams; small changes in inputs produce large, well-distributed output changes.
//
// Complexity: O(1).
func DeriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// Derive returns the generator for sub-stream `stream` of seed.
// The result depends only on (seed, stream), never on call order.
func Derive(seed int64, stream uint64) *rand.Rand {
	return New(DeriveSeed(seed, stream))
}

// Draws returns k values drawn uniformly from [0, n).
//
// With replacement every draw is independent. Without replacement Floyd's
// algorithm selects k distinct values in O(k) expected time and O(k) space,
// independent of n.
//
// Errors: ErrSampleSize when !replace and k > n.
func Draws(r *rand.Rand, n, k int64, replace bool) ([]int64, error) {
	if k <= 0 {
		return []int64{}, nil
	}
	out := make([]int64, 0, k)
	if replace {
		for i := int64(0); i < k; i++ {
			out = append(out, r.Int63n(n))
		}
		return out, nil
	}
	if k > n {
		return nil, ErrSampleSize
	}
	seen := make(map[int64]struct{}, k)
	for j := n - k; j < n; j++ {
		t := r.Int63n(j + 1)
		if _, dup := seen[t]; dup {
			t = j
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

// SortedDraws is Draws followed by an ascending sort.
func SortedDraws(r *rand.Rand, n, k int64, replace bool) ([]int64, error) {
	d, err := Draws(r, n, k, replace)
	if err != nil {
		return nil, err
	}
	slices.Sort(d)
	return d, nil
}
