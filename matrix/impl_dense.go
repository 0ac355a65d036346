// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//   - Support no-copy row windows (RowSlice) and copy-based selection (SelectRows/SelectCols).
//   - Enforce a numeric policy (optional rejection of NaN/Inf) from a single source of truth.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); RowSlice: O(1);
//     Select*: O(r'*c'); Row/ColReduce: O(r*c); Row/ColScale: O(r*c).

package matrix

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt     = "At"       // method tag used in error wrappers
	ctxSet    = "Set"      // method tag used in error wrappers
	ctxApply  = "Apply"    // method tag used in error wrappers
	ctxSlice  = "RowSlice" // ctor tag for RowSlice
	ctxSelect = "Select"   // ctor tag for SelectRows/SelectCols
	ctxScale  = "Scale"    // tag for RowScale/ColScale
	ctxFrom   = "NewFrom"  // tag for adopting constructors
)

// ---------- Formatting literals  ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
//
// Format: "Dense.<method>(row,col): %w". Preserves the sentinel for errors.Is.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
//   - validateNaNInf enables optional NaN/Inf rejection in Set/Apply (policy default from options.go).
type Dense struct {
	r, c           int       // row and column counts (>=0; zero allowed for selections)
	data           []float64 // contiguous row-major storage (len == r*c)
	validateNaNInf bool      // numeric guard: reject NaN/Inf when true
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
// MAIN DESCRIPTION:
//   - Public constructor for Dense with strict shape validation and default numeric policy.
//
// Behavior highlights:
//   - No panics on user errors; returns sentinel errors.
//   - Public constructor forbids empty dimensions to avoid accidental 0×0 matrices.
//     Empty selections (0×c, r×0) are produced internally via newDenseZeroOK.
//
// Errors:
//   - ErrInvalidDimensions (rows<=0 or cols<=0).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{
		r:              rows,
		c:              cols,
		data:           make([]float64, rows*cols),
		validateNaNInf: DefaultValidateNaNInf,
	}, nil
}

// NewDenseFrom adopts data (row-major, len == rows*cols) without copying.
// MAIN DESCRIPTION:
//   - Ingestion constructor for callers that already own a flat buffer
//     (file readers, regression output, tests).
//
// Behavior highlights:
//   - Zero-sized shapes are legal here (rows==0 or cols==0 with empty data).
//   - Under the numeric policy (default on) every value must be finite.
//   - The caller must not keep writing to data outside the returned Dense.
//
// Errors:
//   - ErrInvalidDimensions for negative shapes.
//   - ErrDimensionMismatch when len(data) != rows*cols.
//   - ErrNaNInf when validation is on and a value is non-finite.
func NewDenseFrom(rows, cols int, data []float64, opts ...Option) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}
	if len(data) != rows*cols {
		return nil, matrixErrorf("NewDenseFrom", ErrDimensionMismatch)
	}
	o := gatherOptions(opts...)
	if o.validateNaNInf {
		for idx, v := range data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, denseErrorf(ctxFrom, idx/max(cols, 1), idx%max(cols, 1), ErrNaNInf)
			}
		}
	}

	return &Dense{r: rows, c: cols, data: data, validateNaNInf: o.validateNaNInf}, nil
}

// newDenseZeroOK is an internal constructor that allows rows==0 or cols==0.
// Same numeric policy as the public constructor; negative dimensions fail.
func newDenseZeroOK(rows, cols int) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{
		r:              rows,
		c:              cols,
		data:           make([]float64, rows*cols),
		validateNaNInf: DefaultValidateNaNInf,
	}, nil
}

// Rows returns the row count. Complexity: O(1).
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count. Complexity: O(1).
func (m *Dense) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call for convenience.
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// Kind reports KindDense.
func (m *Dense) Kind() Kind { return KindDense }

// ValidatesNaNInf reports the per-instance numeric policy.
func (m *Dense) ValidatesNaNInf() bool { return m.validateNaNInf }

// RawData exposes the row-major backing buffer. Writes are visible to m.
// Intended for kernels (regression, PCA) that operate on the flat layout.
func (m *Dense) RawData() []float64 { return m.data }

// RawRow exposes row i of the backing buffer (shared storage).
// Panics on an out-of-range row: callers iterate [0, Rows()).
func (m *Dense) RawRow(i int) []float64 { return m.data[i*m.c : (i+1)*m.c] }

// indexOf computes the row-major offset or returns ErrOutOfRange.
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	// Row-major offset: i*c + j.
	return row*m.c + col, nil
}

// At returns the value at (row, col) or ErrOutOfRange.
// Never panics on out-of-range; returns a wrapped sentinel.
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err)
	}

	return m.data[off], nil
}

// Set stores v at (row, col) or returns an error (bounds or numeric policy).
//
// Errors:
//   - ErrOutOfRange on invalid indices.
//   - ErrNaNInf when the policy is on and v is non-finite.
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	if m.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[off] = v

	return nil
}

// Clone returns a deep copy with the same numeric policy.
// Complexity: O(r*c).
func (m *Dense) Clone() Matrix { return m.clone() }

func (m *Dense) clone() *Dense {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)

	return &Dense{
		r:              m.r,
		c:              m.c,
		data:           cp,
		validateNaNInf: m.validateNaNInf, // preserve guard policy
	}
}

// ToDense returns an independent copy (already dense).
func (m *Dense) ToDense() *Dense { return m.clone() }

// String HUMAN-READABLE dump of rows for diagnostics.
// Not for hot paths; intended for logs and debugging.
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ {
		b.WriteString(_fmtRowOpen)
		base = i * m.c
		for j = 0; j < m.c; j++ {
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(_fmtSep)
			}
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}

// RowReduce returns the per-row sum or nonzero count.
// Determinism: ordered left-to-right accumulation within each row.
func (m *Dense) RowReduce(mode ReduceMode) []float64 {
	out := make([]float64, m.r)
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		acc := 0.0
		for j = 0; j < m.c; j++ {
			acc += reduceTerm(mode, m.data[base+j])
		}
		out[i] = acc
	}

	return out
}

// ColReduce returns the per-column sum or nonzero count.
// Row-major traversal keeps memory access sequential; each column accumulates top-down.
func (m *Dense) ColReduce(mode ReduceMode) []float64 {
	out := make([]float64, m.c)
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			out[j] += reduceTerm(mode, m.data[base+j])
		}
	}

	return out
}

// RowScale multiplies row i by f[i] in place.
// MAIN DESCRIPTION:
//   - Per-row broadcasting of a factor vector (normalization hot path).
//
// Implementation:
//   - One kernels.scale call per row over the contiguous row slice.
//
// Errors:
//   - ErrDimensionMismatch when len(f) != Rows().
//
// Complexity:
//   - Time O(r*c), Space O(1).
func (m *Dense) RowScale(f []float64) error {
	if err := ValidateVecLen(f, m.r); err != nil {
		return fmt.Errorf("Dense.Row%s: %w", ctxScale, err)
	}
	for i := 0; i < m.r; i++ {
		kernels.scale(f[i], m.data[i*m.c:(i+1)*m.c])
	}

	return nil
}

// ColScale multiplies column j by f[j] in place.
// Implementation: one kernels.mul per row (dst row ⊙ f).
func (m *Dense) ColScale(f []float64) error {
	if err := ValidateVecLen(f, m.c); err != nil {
		return fmt.Errorf("Dense.Col%s: %w", ctxScale, err)
	}
	for i := 0; i < m.r; i++ {
		kernels.mul(m.data[i*m.c:(i+1)*m.c], f)
	}

	return nil
}

// SubCols subtracts mu[j] from every value of column j in place.
func (m *Dense) SubCols(mu []float64) error {
	if err := ValidateVecLen(mu, m.c); err != nil {
		return fmt.Errorf("Dense.SubCols: %w", err)
	}
	for i := 0; i < m.r; i++ {
		kernels.sub(m.data[i*m.c:(i+1)*m.c], mu)
	}

	return nil
}

// ApplyZeroPreserving replaces every value v by fn(v).
// Dense storage has no implicit zeros, so fn(0) is not constrained here.
//
// Errors:
//   - ErrNaNInf when the policy is on and fn yields a non-finite value.
//     Elements before the failing one have already been rewritten.
func (m *Dense) ApplyZeroPreserving(fn ElementFunc) error {
	var nv float64
	for idx, v := range m.data {
		nv = fn(v)
		if m.validateNaNInf && (math.IsNaN(nv) || math.IsInf(nv, 0)) {
			return denseErrorf(ctxApply, idx/m.c, idx%m.c, ErrNaNInf)
		}
		m.data[idx] = nv
	}

	return nil
}

// Do visits every element in row-major order; stops when f returns false.
func (m *Dense) Do(f func(i, j int, v float64) bool) {
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			if !f(i, j, m.data[base+j]) {
				return
			}
		}
	}
}

// SelectRows materializes the given rows (copy) in the given order.
// Errors: ErrOutOfRange / ErrDuplicateIndex.
func (m *Dense) SelectRows(idx []int) (Matrix, error) {
	if err := ValidateSelection(idx, m.r); err != nil {
		return nil, fmt.Errorf("Dense.%sRows: %w", ctxSelect, err)
	}
	res, err := newDenseZeroOK(len(idx), m.c)
	if err != nil {
		return nil, err
	}
	res.validateNaNInf = m.validateNaNInf
	for k, i := range idx {
		copy(res.data[k*m.c:(k+1)*m.c], m.data[i*m.c:(i+1)*m.c])
	}

	return res, nil
}

// SelectCols materializes the given columns (copy) in the given order.
// Errors: ErrOutOfRange / ErrDuplicateIndex.
func (m *Dense) SelectCols(idx []int) (Matrix, error) {
	if err := ValidateSelection(idx, m.c); err != nil {
		return nil, fmt.Errorf("Dense.%sCols: %w", ctxSelect, err)
	}
	cp := len(idx)
	res, err := newDenseZeroOK(m.r, cp)
	if err != nil {
		return nil, err
	}
	res.validateNaNInf = m.validateNaNInf
	var i, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for k, j := range idx {
			res.data[i*cp+k] = m.data[base+j]
		}
	}

	return res, nil
}

// RowSlice returns rows [start, end) as a Dense sharing the parent's buffer.
// Row-major layout makes any row range contiguous, so no copy is needed.
func (m *Dense) RowSlice(start, end int) (Matrix, error) {
	if err := ValidateRowRange(start, end, m.r); err != nil {
		return nil, fmt.Errorf("Dense.%s(%d,%d): %w", ctxSlice, start, end, err)
	}

	return &Dense{
		r:              end - start,
		c:              m.c,
		data:           m.data[start*m.c : end*m.c : end*m.c],
		validateNaNInf: m.validateNaNInf,
	}, nil
}

// reduceTerm maps one stored value to its contribution under mode.
func reduceTerm(mode ReduceMode, v float64) float64 {
	if mode == ReduceNonzero {
		if v != 0 {
			return 1
		}
		return 0
	}

	return v
}
