// Package filter turns a per-row or per-column summary statistic into a keep mask.
//
// ByAxis computes the statistic with one reduction (sum or nonzero count) and
// compares it against a single bound. Criteria bundles the four mutually
// exclusive knobs callers expose (min/max counts, min/max nonzero entries) and
// resolves them to exactly one ByAxis call.
//
// An all-false mask is a valid result; deciding what to do with an empty
// selection is the caller's business.
package filter
