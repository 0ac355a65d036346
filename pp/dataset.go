// SPDX-License-Identifier: MIT

package pp

import (
	"errors"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/countprep/anndata"
	"github.com/katalvlaran/countprep/matrix"
)

var (
	// ErrNilDataset is returned when ds is nil.
	ErrNilDataset = errors.New("pp: nil dataset")

	// ErrUnknownKey is returned for a layer or annotation key the dataset lacks.
	ErrUnknownKey = errors.New("pp: unknown key")

	// ErrInvalidUseRep is returned for a NormalizeConfig.UseRep other than "", "after" or "X".
	ErrInvalidUseRep = errors.New(`pp: use rep must be "", "after" or "X"`)

	// ErrCategoricalKeys is returned when a categorical key is combined with others.
	ErrCategoricalKeys = errors.New("pp: a categorical key must be the only regression key")

	// ErrNoKeys is returned by RegressOut without keys.
	ErrNoKeys = errors.New("pp: no regression keys")

	// ErrInvalidComponents is returned for a PCA component count outside [1, min(obs, vars)].
	ErrInvalidComponents = errors.New("pp: invalid number of components")

	// ErrPCAFailed is returned when the decomposition does not converge.
	ErrPCAFailed = errors.New("pp: principal component analysis failed")
)

// Dataset is the annotated-dataset surface the bindings consume.
// *anndata.Dataset implements it.
type Dataset interface {
	NObs() int
	NVars() int

	X() matrix.Matrix
	SetX(m matrix.Matrix) error
	Layer(name string) (matrix.Matrix, bool)
	SetLayer(name string, m matrix.Matrix) error
	LayerNames() []string

	ObsColumn(key string) (anndata.Column, bool)
	SetObsColumn(key string, c anndata.Column) error
	SetVarColumn(key string, c anndata.Column) error
	SetObsm(key string, m *mat.Dense) error
	SetUns(key string, v any)

	SubsetObs(mask matrix.Mask) error
	SubsetVars(mask matrix.Mask) error
	SelectObs(bm *roaring.Bitmap) error

	Copy() *anndata.Dataset
}

var _ Dataset = (*anndata.Dataset)(nil)

// begin resolves the copy flag: the dataset to work on and the one to return.
func begin(ds Dataset, o Options) (Dataset, *anndata.Dataset, error) {
	if ds == nil {
		return nil, nil, ErrNilDataset
	}
	if o.copy {
		c := ds.Copy()
		return c, c, nil
	}
	return ds, nil, nil
}
