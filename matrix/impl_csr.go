// SPDX-License-Identifier: MIT

// Package matrix - CSR (compressed sparse row) storage.
//
// Layout:
//   - indptr  : len rows+1, monotone, indptr[0] == 0, indptr[rows] == nnz.
//   - indices : column index of every stored entry, in [0, cols).
//   - data    : stored value of every entry (parallel to indices).
//
// Row i owns the half-open run [indptr[i], indptr[i+1]). Column order inside a
// run is not required to be sorted, but each (i,j) is stored at most once so
// every stored slot is the full value of its cell. Stored zeros are legal and
// only removed by EliminateZeros.
//
// Complexity quicksheet:
//   - At: O(nnz(row)); Row/ColReduce: O(nnz); Row/ColScale: O(nnz);
//     RowSlice: O(rows') (indptr rebase only); SelectRows: O(nnz');
//     SelectCols: O(nnz + cols); ToDense: O(r*c + nnz).

package matrix

import (
	"fmt"
	"math"
)

// csrErrorf wraps an error with a uniform CSR context.
func csrErrorf(method string, err error) error {
	return fmt.Errorf("CSR.%s: %w", method, err)
}

// CSR is a compressed-sparse-row matrix.
type CSR struct {
	r, c           int
	indptr         []int
	indices        []int
	data           []float64
	validateNaNInf bool
}

var (
	_ Matrix       = (*CSR)(nil)
	_ fmt.Stringer = (*CSR)(nil)
)

// NewCSR adopts the three CSR arrays without copying after validating the
// structural contract (see ValidateCSR) and, under the numeric policy, that
// every stored value is finite.
//
// Errors:
//   - ErrInvalidDimensions for negative shapes.
//   - ErrMalformedCSR for any layout violation, duplicate (i,j) entries included.
//   - ErrNaNInf when validation is on and a stored value is non-finite.
func NewCSR(rows, cols int, indptr, indices []int, data []float64, opts ...Option) (*CSR, error) {
	if err := ValidateCSR(rows, cols, indptr, indices, data); err != nil {
		return nil, csrErrorf(ctxFrom, err)
	}
	o := gatherOptions(opts...)
	if o.validateNaNInf {
		if err := ValidateFinite(data); err != nil {
			return nil, csrErrorf(ctxFrom, err)
		}
	}

	return &CSR{
		r:              rows,
		c:              cols,
		indptr:         indptr,
		indices:        indices,
		data:           data,
		validateNaNInf: o.validateNaNInf,
	}, nil
}

// CSRFromDense compresses d, storing only entries with value != 0.
// Column indices come out sorted within each row.
func CSRFromDense(d *Dense) *CSR {
	nnz := 0
	for _, v := range d.data {
		if v != 0 {
			nnz++
		}
	}
	indptr := make([]int, d.r+1)
	indices := make([]int, 0, nnz)
	data := make([]float64, 0, nnz)
	var i, j, base int
	for i = 0; i < d.r; i++ {
		base = i * d.c
		for j = 0; j < d.c; j++ {
			if v := d.data[base+j]; v != 0 {
				indices = append(indices, j)
				data = append(data, v)
			}
		}
		indptr[i+1] = len(indices)
	}

	return &CSR{
		r:              d.r,
		c:              d.c,
		indptr:         indptr,
		indices:        indices,
		data:           data,
		validateNaNInf: d.validateNaNInf,
	}
}

// Rows returns the row count.
func (s *CSR) Rows() int { return s.r }

// Cols returns the column count.
func (s *CSR) Cols() int { return s.c }

// Kind reports KindCSR.
func (s *CSR) Kind() Kind { return KindCSR }

// NNZ returns the number of stored entries (including stored zeros).
func (s *CSR) NNZ() int { return len(s.data) }

// Indptr exposes the row pointer array (shared storage; do not mutate).
func (s *CSR) Indptr() []int { return s.indptr }

// Indices exposes the column index array (shared storage; do not mutate).
func (s *CSR) Indices() []int { return s.indices }

// Data exposes the stored values (shared storage). Writes are visible to s.
func (s *CSR) Data() []float64 { return s.data }

// ValidatesNaNInf reports the per-instance numeric policy.
func (s *CSR) ValidatesNaNInf() bool { return s.validateNaNInf }

// RowRun returns the stored column indices and values of row i (shared).
// Panics on an out-of-range row: callers iterate [0, Rows()).
func (s *CSR) RowRun(i int) ([]int, []float64) {
	lo, hi := s.indptr[i], s.indptr[i+1]

	return s.indices[lo:hi], s.data[lo:hi]
}

// At scans row i for column j; absent entries read as 0.
func (s *CSR) At(i, j int) (float64, error) {
	if i < 0 || i >= s.r || j < 0 || j >= s.c {
		return 0, fmt.Errorf("CSR.%s(%d,%d): %w", ctxAt, i, j, ErrOutOfRange)
	}
	acc := 0.0
	for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
		if s.indices[k] == j {
			acc += s.data[k]
		}
	}

	return acc, nil
}

// RowReduce returns per-row sums or nonzero counts over the stored entries.
func (s *CSR) RowReduce(mode ReduceMode) []float64 {
	out := make([]float64, s.r)
	for i := 0; i < s.r; i++ {
		acc := 0.0
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			acc += reduceTerm(mode, s.data[k])
		}
		out[i] = acc
	}

	return out
}

// ColReduce returns per-column sums or nonzero counts over the stored entries.
func (s *CSR) ColReduce(mode ReduceMode) []float64 {
	out := make([]float64, s.c)
	for k, j := range s.indices {
		out[j] += reduceTerm(mode, s.data[k])
	}

	return out
}

// RowScale multiplies the stored run of row i by f[i] in place.
func (s *CSR) RowScale(f []float64) error {
	if err := ValidateVecLen(f, s.r); err != nil {
		return csrErrorf("Row"+ctxScale, err)
	}
	for i := 0; i < s.r; i++ {
		kernels.scale(f[i], s.data[s.indptr[i]:s.indptr[i+1]])
	}

	return nil
}

// ColScale multiplies every stored entry of column j by f[j] in place.
func (s *CSR) ColScale(f []float64) error {
	if err := ValidateVecLen(f, s.c); err != nil {
		return csrErrorf("Col"+ctxScale, err)
	}
	for k, j := range s.indices {
		s.data[k] *= f[j]
	}

	return nil
}

// ApplyZeroPreserving rewrites stored values with fn. Implicit zeros stay
// implicit, so fn must satisfy fn(0) == 0.
//
// Errors:
//   - ErrNotZeroPreserving when fn(0) != 0 (checked before any write).
//   - ErrNaNInf when the policy is on and fn yields a non-finite value.
func (s *CSR) ApplyZeroPreserving(fn ElementFunc) error {
	if z := fn(0); z != 0 {
		return csrErrorf(ctxApply, ErrNotZeroPreserving)
	}
	var nv float64
	for k, v := range s.data {
		nv = fn(v)
		if s.validateNaNInf && (math.IsNaN(nv) || math.IsInf(nv, 0)) {
			return csrErrorf(ctxApply, ErrNaNInf)
		}
		s.data[k] = nv
	}

	return nil
}

// SelectRows copies the runs of the given rows into a fresh CSR.
func (s *CSR) SelectRows(idx []int) (Matrix, error) {
	if err := ValidateSelection(idx, s.r); err != nil {
		return nil, csrErrorf(ctxSelect+"Rows", err)
	}
	nnz := 0
	for _, i := range idx {
		nnz += s.indptr[i+1] - s.indptr[i]
	}
	indptr := make([]int, len(idx)+1)
	indices := make([]int, 0, nnz)
	data := make([]float64, 0, nnz)
	for k, i := range idx {
		lo, hi := s.indptr[i], s.indptr[i+1]
		indices = append(indices, s.indices[lo:hi]...)
		data = append(data, s.data[lo:hi]...)
		indptr[k+1] = len(indices)
	}

	return &CSR{r: len(idx), c: s.c, indptr: indptr, indices: indices, data: data, validateNaNInf: s.validateNaNInf}, nil
}

// SelectCols keeps the stored entries of the given columns, renumbered to
// their position in idx. Entry order inside each row follows storage order.
func (s *CSR) SelectCols(idx []int) (Matrix, error) {
	if err := ValidateSelection(idx, s.c); err != nil {
		return nil, csrErrorf(ctxSelect+"Cols", err)
	}
	pos := make([]int, s.c)
	for j := range pos {
		pos[j] = -1
	}
	for k, j := range idx {
		pos[j] = k
	}
	indptr := make([]int, s.r+1)
	indices := make([]int, 0)
	data := make([]float64, 0)
	for i := 0; i < s.r; i++ {
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			if p := pos[s.indices[k]]; p >= 0 {
				indices = append(indices, p)
				data = append(data, s.data[k])
			}
		}
		indptr[i+1] = len(indices)
	}

	return &CSR{r: s.r, c: len(idx), indptr: indptr, indices: indices, data: data, validateNaNInf: s.validateNaNInf}, nil
}

// RowSlice returns rows [start, end) sharing indices/data with s.
// Only indptr is rebased into a fresh slice, so writes to Data() propagate.
func (s *CSR) RowSlice(start, end int) (Matrix, error) {
	if err := ValidateRowRange(start, end, s.r); err != nil {
		return nil, csrErrorf(ctxSlice, err)
	}
	lo, hi := s.indptr[start], s.indptr[end]
	indptr := make([]int, end-start+1)
	for i := range indptr {
		indptr[i] = s.indptr[start+i] - lo
	}

	return &CSR{
		r:              end - start,
		c:              s.c,
		indptr:         indptr,
		indices:        s.indices[lo:hi:hi],
		data:           s.data[lo:hi:hi],
		validateNaNInf: s.validateNaNInf,
	}, nil
}

// ToDense materializes s.
func (s *CSR) ToDense() *Dense {
	d := &Dense{r: s.r, c: s.c, data: make([]float64, s.r*s.c), validateNaNInf: s.validateNaNInf}
	for i := 0; i < s.r; i++ {
		base := i * s.c
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			d.data[base+s.indices[k]] += s.data[k]
		}
	}

	return d
}

// Clone returns a deep copy of all three arrays.
func (s *CSR) Clone() Matrix {
	return &CSR{
		r:              s.r,
		c:              s.c,
		indptr:         append([]int(nil), s.indptr...),
		indices:        append([]int(nil), s.indices...),
		data:           append([]float64(nil), s.data...),
		validateNaNInf: s.validateNaNInf,
	}
}

// EliminateZeros drops stored entries equal to zero and returns how many
// were removed. The compacted arrays are freshly allocated, so a CSR obtained
// from RowSlice detaches from its parent instead of corrupting it.
func (s *CSR) EliminateZeros() int {
	keep := 0
	for _, v := range s.data {
		if v != 0 {
			keep++
		}
	}
	removed := len(s.data) - keep
	if removed == 0 {
		return 0
	}
	indptr := make([]int, s.r+1)
	indices := make([]int, 0, keep)
	data := make([]float64, 0, keep)
	for i := 0; i < s.r; i++ {
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			if s.data[k] != 0 {
				indices = append(indices, s.indices[k])
				data = append(data, s.data[k])
			}
		}
		indptr[i+1] = len(indices)
	}
	s.indptr, s.indices, s.data = indptr, indices, data

	return removed
}

// String renders the dense form; intended for small matrices in logs/tests.
func (s *CSR) String() string { return s.ToDense().String() }
