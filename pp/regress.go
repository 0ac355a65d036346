// SPDX-License-Identifier: MIT

package pp

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/countprep/anndata"
	"github.com/katalvlaran/countprep/matrix"
	"github.com/katalvlaran/countprep/regress"
)

// RegressOut replaces X with the residuals of a per-column linear fit on the
// obs annotations named by keys.
//
// A single categorical key regresses each column on its per-category means;
// one or more numeric keys form a shared design with a leading intercept.
// Sparse X is densified first.
func RegressOut(ds Dataset, keys []string, parallelism int, opts ...Option) (*anndata.Dataset, error) {
	o := gatherOptions(opts...)
	if len(keys) == 0 {
		return nil, fmt.Errorf("pp.RegressOut: %w", ErrNoKeys)
	}
	work, ret, err := begin(ds, o)
	if err != nil {
		return nil, fmt.Errorf("pp.RegressOut: %w", err)
	}
	cov, err := covariates(work, keys)
	if err != nil {
		return nil, fmt.Errorf("pp.RegressOut: %w", err)
	}

	x := work.X()
	if x.Kind() == matrix.KindCSR {
		o.logger.Info("densifying sparse X for regression",
			zap.Int("rows", x.Rows()), zap.Int("cols", x.Cols()))
	}
	dense := x.ToDense()
	o.logger.Info("regressing out", zap.Strings("keys", keys), zap.Int("parallelism", parallelism))
	res, rep, err := regress.RemoveLinearEffect(dense, cov,
		regress.WithParallelism(max(parallelism, 1)), regress.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("pp.RegressOut: %w", err)
	}
	if len(rep.Degenerate) > 0 {
		o.logger.Warn("columns with rank-deficient designs set to zero", zap.Int("count", len(rep.Degenerate)))
	}
	if err = work.SetX(res); err != nil {
		return nil, fmt.Errorf("pp.RegressOut: %w", err)
	}

	return ret, nil
}

// covariates builds the regression design from obs annotations.
func covariates(ds Dataset, keys []string) (regress.Covariates, error) {
	cols := make([]anndata.Column, len(keys))
	for k, key := range keys {
		c, ok := ds.ObsColumn(key)
		if !ok {
			return regress.Covariates{}, fmt.Errorf("obs %q: %w", key, ErrUnknownKey)
		}
		cols[k] = c
	}
	if cat, ok := cols[0].(*anndata.Categorical); ok {
		if len(keys) > 1 {
			return regress.Covariates{}, ErrCategoricalKeys
		}
		return regress.Categorical(cat.Codes), nil
	}

	n := ds.NObs()
	design := mat.NewDense(n, len(keys), nil)
	for k, c := range cols {
		num, ok := c.(anndata.Numeric)
		if !ok {
			if _, isCat := c.(*anndata.Categorical); isCat {
				return regress.Covariates{}, ErrCategoricalKeys
			}
			return regress.Covariates{}, fmt.Errorf("obs %q is not numeric: %w", keys[k], regress.ErrInvalidCovariates)
		}
		design.SetCol(k, num)
	}
	return regress.Numeric(design), nil
}
