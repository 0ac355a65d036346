// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for constructors and numeric policy.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//
// Notes:
//   - validateNaNInf is per-instance and preserved by Clone/Select*/RowSlice.
//   - Under validation, Set and ApplyZeroPreserving reject non-finite results.
//     Ingestion (NewDenseFrom/NewCSR) rejects non-finite input values.
package matrix

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultValidateNaNInf toggles strict finite-value validation on ingestion,
	// Set and element-wise transforms.
	DefaultValidateNaNInf = true

	// DefaultChunkSize is the row-chunk length used by chunked element-wise
	// transforms when the caller does not pick one.
	DefaultChunkSize = 6000
)

const panicChunkSizeInvalid = "matrix: WithChunkSize: size must be > 0"

// Option configures constructors.
type Option func(*Options)

// Options is the resolved configuration. Fields are unexported on purpose;
// callers compose it through WithX helpers.
type Options struct {
	validateNaNInf bool // DefaultValidateNaNInf
	chunkSize      int  // DefaultChunkSize
}

// WithValidateNaNInf enables finite-only ingestion and writes.
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf disables the finite-only policy (NaN/Inf are stored as-is).
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithChunkSize sets the row-chunk length for ChunkedApply.
// Panics if size <= 0.
func WithChunkSize(size int) Option {
	if size <= 0 {
		panic(panicChunkSizeInvalid)
	}

	return func(o *Options) { o.chunkSize = size }
}

// defaultOptions returns the documented defaults.
func defaultOptions() Options {
	return Options{
		validateNaNInf: DefaultValidateNaNInf,
		chunkSize:      DefaultChunkSize,
	}
}

// gatherOptions applies opts over the defaults, ignoring nil entries.
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
