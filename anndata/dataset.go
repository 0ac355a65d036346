// SPDX-License-Identifier: MIT

package anndata

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/countprep/matrix"
)

var (
	// ErrInvalidColumn is returned for an annotation column of the wrong length
	// or with out-of-range categorical codes.
	ErrInvalidColumn = errors.New("anndata: invalid annotation column")

	// ErrShape is returned when a matrix does not match the dataset shape.
	ErrShape = errors.New("anndata: matrix shape does not match the dataset")
)

// Dataset is an annotated observations × variables matrix.
// The zero value is not usable; build one with New.
type Dataset struct {
	x      matrix.Matrix
	layers map[string]matrix.Matrix
	obs    map[string]Column
	vars   map[string]Column
	obsm   map[string]*mat.Dense
	uns    map[string]any
}

// New wraps x. x is adopted, not copied.
//
// Errors: matrix.ErrNilMatrix.
func New(x matrix.Matrix) (*Dataset, error) {
	if err := matrix.ValidateNotNil(x); err != nil {
		return nil, fmt.Errorf("anndata.New: %w", err)
	}
	return &Dataset{
		x:      x,
		layers: make(map[string]matrix.Matrix),
		obs:    make(map[string]Column),
		vars:   make(map[string]Column),
		obsm:   make(map[string]*mat.Dense),
		uns:    make(map[string]any),
	}, nil
}

// NObs returns the number of observations (rows).
func (d *Dataset) NObs() int { return d.x.Rows() }

// NVars returns the number of variables (columns).
func (d *Dataset) NVars() int { return d.x.Cols() }

// X returns the primary matrix.
func (d *Dataset) X() matrix.Matrix { return d.x }

// SetX replaces the primary matrix; the shape must not change.
func (d *Dataset) SetX(m matrix.Matrix) error {
	if err := d.checkShape(m); err != nil {
		return fmt.Errorf("anndata.SetX: %w", err)
	}
	d.x = m
	return nil
}

// Layer returns the named alternate matrix.
func (d *Dataset) Layer(name string) (matrix.Matrix, bool) {
	m, ok := d.layers[name]
	return m, ok
}

// SetLayer stores m under name; m must have the shape of X.
func (d *Dataset) SetLayer(name string, m matrix.Matrix) error {
	if err := d.checkShape(m); err != nil {
		return fmt.Errorf("anndata.SetLayer %q: %w", name, err)
	}
	d.layers[name] = m
	return nil
}

// LayerNames returns the layer names in ascending order.
func (d *Dataset) LayerNames() []string { return slices.Sorted(maps.Keys(d.layers)) }

// ObsColumn returns the named per-observation annotation.
func (d *Dataset) ObsColumn(key string) (Column, bool) {
	c, ok := d.obs[key]
	return c, ok
}

// SetObsColumn stores a per-observation annotation of length NObs.
func (d *Dataset) SetObsColumn(key string, c Column) error {
	if err := checkColumn(c, d.NObs()); err != nil {
		return fmt.Errorf("anndata.SetObsColumn %q: %w", key, err)
	}
	d.obs[key] = c
	return nil
}

// ObsKeys returns the obs annotation keys in ascending order.
func (d *Dataset) ObsKeys() []string { return slices.Sorted(maps.Keys(d.obs)) }

// VarColumn returns the named per-variable annotation.
func (d *Dataset) VarColumn(key string) (Column, bool) {
	c, ok := d.vars[key]
	return c, ok
}

// SetVarColumn stores a per-variable annotation of length NVars.
func (d *Dataset) SetVarColumn(key string, c Column) error {
	if err := checkColumn(c, d.NVars()); err != nil {
		return fmt.Errorf("anndata.SetVarColumn %q: %w", key, err)
	}
	d.vars[key] = c
	return nil
}

// VarKeys returns the var annotation keys in ascending order.
func (d *Dataset) VarKeys() []string { return slices.Sorted(maps.Keys(d.vars)) }

// Obsm returns the named per-observation embedding.
func (d *Dataset) Obsm(key string) (*mat.Dense, bool) {
	m, ok := d.obsm[key]
	return m, ok
}

// SetObsm stores an NObs × k embedding.
func (d *Dataset) SetObsm(key string, m *mat.Dense) error {
	if m == nil {
		return fmt.Errorf("anndata.SetObsm %q: %w", key, matrix.ErrNilMatrix)
	}
	if r, _ := m.Dims(); r != d.NObs() {
		return fmt.Errorf("anndata.SetObsm %q: rows %d, want %d: %w", key, r, d.NObs(), ErrShape)
	}
	d.obsm[key] = m
	return nil
}

// Uns returns the unstructured entry under key.
func (d *Dataset) Uns(key string) (any, bool) {
	v, ok := d.uns[key]
	return v, ok
}

// SetUns stores v under key.
func (d *Dataset) SetUns(key string, v any) { d.uns[key] = v }

// ChunkedX iterates X in row chunks sharing storage with X.
func (d *Dataset) ChunkedX(size int) (*matrix.ChunkIterator, error) {
	return matrix.RowChunks(d.x, size)
}

// SubsetObs keeps the observations flagged by mask.
func (d *Dataset) SubsetObs(mask matrix.Mask) error {
	if len(mask) != d.NObs() {
		return fmt.Errorf("anndata.SubsetObs: %w", matrix.ErrDimensionMismatch)
	}
	return d.SelectObs(mask.Bitmap())
}

// SubsetVars keeps the variables flagged by mask.
func (d *Dataset) SubsetVars(mask matrix.Mask) error {
	if len(mask) != d.NVars() {
		return fmt.Errorf("anndata.SubsetVars: %w", matrix.ErrDimensionMismatch)
	}
	return d.SelectVars(mask.Bitmap())
}

// SelectObs keeps the observations in bm, in ascending order.
// On error the dataset is unchanged.
func (d *Dataset) SelectObs(bm *roaring.Bitmap) error {
	idx, err := bitmapIndices(bm, d.NObs())
	if err != nil {
		return fmt.Errorf("anndata.SelectObs: %w", err)
	}
	x, err := d.x.SelectRows(idx)
	if err != nil {
		return fmt.Errorf("anndata.SelectObs: %w", err)
	}
	layers := make(map[string]matrix.Matrix, len(d.layers))
	for name, l := range d.layers {
		if layers[name], err = l.SelectRows(idx); err != nil {
			return fmt.Errorf("anndata.SelectObs: layer %q: %w", name, err)
		}
	}
	for key, e := range d.obsm {
		d.obsm[key] = takeRows(e, idx)
	}
	for key, c := range d.obs {
		d.obs[key] = c.Take(idx)
	}
	d.x, d.layers = x, layers
	return nil
}

// SelectVars keeps the variables in bm, in ascending order.
// On error the dataset is unchanged.
func (d *Dataset) SelectVars(bm *roaring.Bitmap) error {
	idx, err := bitmapIndices(bm, d.NVars())
	if err != nil {
		return fmt.Errorf("anndata.SelectVars: %w", err)
	}
	x, err := d.x.SelectCols(idx)
	if err != nil {
		return fmt.Errorf("anndata.SelectVars: %w", err)
	}
	layers := make(map[string]matrix.Matrix, len(d.layers))
	for name, l := range d.layers {
		if layers[name], err = l.SelectCols(idx); err != nil {
			return fmt.Errorf("anndata.SelectVars: layer %q: %w", name, err)
		}
	}
	for key, c := range d.vars {
		d.vars[key] = c.Take(idx)
	}
	d.x, d.layers = x, layers
	return nil
}

// Copy returns a deep copy. Uns values are shared; the map itself is new.
func (d *Dataset) Copy() *Dataset {
	out := &Dataset{
		x:      d.x.Clone(),
		layers: make(map[string]matrix.Matrix, len(d.layers)),
		obs:    make(map[string]Column, len(d.obs)),
		vars:   make(map[string]Column, len(d.vars)),
		obsm:   make(map[string]*mat.Dense, len(d.obsm)),
		uns:    maps.Clone(d.uns),
	}
	for k, v := range d.layers {
		out.layers[k] = v.Clone()
	}
	for k, v := range d.obs {
		out.obs[k] = cloneColumn(v)
	}
	for k, v := range d.vars {
		out.vars[k] = cloneColumn(v)
	}
	for k, v := range d.obsm {
		out.obsm[k] = mat.DenseCopyOf(v)
	}
	return out
}

func (d *Dataset) checkShape(m matrix.Matrix) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return err
	}
	if m.Rows() != d.x.Rows() || m.Cols() != d.x.Cols() {
		return fmt.Errorf("%dx%d, want %dx%d: %w", m.Rows(), m.Cols(), d.x.Rows(), d.x.Cols(), ErrShape)
	}
	return nil
}

func checkColumn(c Column, n int) error {
	if c == nil {
		return fmt.Errorf("nil column: %w", ErrInvalidColumn)
	}
	if c.Len() != n {
		return fmt.Errorf("length %d, want %d: %w", c.Len(), n, ErrInvalidColumn)
	}
	if cat, ok := c.(*Categorical); ok {
		return cat.Validate()
	}
	return nil
}

func bitmapIndices(bm *roaring.Bitmap, n int) ([]int, error) {
	if bm == nil {
		return nil, fmt.Errorf("nil selection: %w", matrix.ErrBadShape)
	}
	if !bm.IsEmpty() && int(bm.Maximum()) >= n {
		return nil, fmt.Errorf("position %d of %d: %w", bm.Maximum(), n, matrix.ErrOutOfRange)
	}
	return matrix.BitmapIndices(bm), nil
}

func takeRows(m *mat.Dense, idx []int) *mat.Dense {
	_, c := m.Dims()
	if len(idx) == 0 || c == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(len(idx), c, nil)
	for k, i := range idx {
		out.SetRow(k, m.RawRowView(i))
	}
	return out
}
