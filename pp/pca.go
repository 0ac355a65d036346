// SPDX-License-Identifier: MIT

package pp

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/countprep/anndata"
	"github.com/katalvlaran/countprep/matrix"
)

// PCAInfo is stored in uns "pca".
type PCAInfo struct {
	Variance      []float64  // explained variance of each kept component
	VarianceRatio []float64  // Variance over the total variance
	Components    *mat.Dense // NVars × nComps loadings
}

// PCA projects the column-centered X onto its first nComps principal
// components, storing the coordinates in obsm "X_pca" and a PCAInfo in uns "pca".
// X itself is not modified.
func PCA(ds Dataset, nComps int, opts ...Option) (*anndata.Dataset, error) {
	o := gatherOptions(opts...)
	work, ret, err := begin(ds, o)
	if err != nil {
		return nil, fmt.Errorf("pp.PCA: %w", err)
	}
	n, p := work.NObs(), work.NVars()
	if nComps < 1 || nComps > min(n, p) {
		return nil, fmt.Errorf("pp.PCA: %d of %dx%d: %w", nComps, n, p, ErrInvalidComponents)
	}
	if work.X().Kind() == matrix.KindCSR {
		o.logger.Info("densifying sparse X for PCA", zap.Int("rows", n), zap.Int("cols", p))
	}
	x := work.X().ToDense()
	if _, err = matrix.CenterColumns(x); err != nil {
		return nil, fmt.Errorf("pp.PCA: %w", err)
	}
	centered := mat.NewDense(n, p, x.RawData())

	var pc stat.PC
	if ok := pc.PrincipalComponents(centered, nil); !ok {
		return nil, fmt.Errorf("pp.PCA: %w", ErrPCAFailed)
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	loadings := mat.DenseCopyOf(vecs.Slice(0, p, 0, nComps))
	var proj mat.Dense
	proj.Mul(centered, loadings)

	info := PCAInfo{
		Variance:      append([]float64(nil), vars[:nComps]...),
		VarianceRatio: make([]float64, nComps),
		Components:    loadings,
	}
	if total := floats.Sum(vars); total > 0 {
		floats.ScaleTo(info.VarianceRatio, 1/total, info.Variance)
	}
	if err = work.SetObsm("X_pca", &proj); err != nil {
		return nil, fmt.Errorf("pp.PCA: %w", err)
	}
	work.SetUns("pca", info)
	o.logger.Info("computed PCA", zap.Int("components", nComps))

	return ret, nil
}
