// SPDX-License-Identifier: MIT

package normalize

import "math"

// DefaultMinTotal is the minimum row total for a row to take part in the
// default (median) target.
const DefaultMinTotal = 1.0

const (
	panicTargetInvalid   = "normalize: WithTargetTotal: target must be finite and > 0"
	panicMinTotalInvalid = "normalize: WithMinTotal: min total must be finite"
)

// Option configures Rows.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	target   float64   // 0 ⇒ median of qualifying totals
	minTotal float64   // DefaultMinTotal
	totals   []float64 // nil ⇒ computed with RowReduce(sum)
	copy     bool      // false ⇒ in place
}

// WithTargetTotal fixes the per-row total after normalization.
// Panics on a non-finite or non-positive target.
func WithTargetTotal(t float64) Option {
	if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
		panic(panicTargetInvalid)
	}
	return func(o *Options) { o.target = t }
}

// WithMinTotal sets the minimum total for rows that feed the median target.
func WithMinTotal(n float64) Option {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		panic(panicMinTotalInvalid)
	}
	return func(o *Options) { o.minTotal = n }
}

// WithTotals supplies precomputed row totals (length must equal Rows()).
// The slice is not modified.
func WithTotals(totals []float64) Option {
	return func(o *Options) { o.totals = totals }
}

// WithCopy makes Rows work on a clone and leave the input untouched.
func WithCopy(enabled bool) Option {
	return func(o *Options) { o.copy = enabled }
}

func gatherOptions(opts ...Option) Options {
	o := Options{minTotal: DefaultMinTotal}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
