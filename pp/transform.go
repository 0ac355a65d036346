// SPDX-License-Identifier: MIT

package pp

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/countprep/anndata"
	"github.com/katalvlaran/countprep/matrix"
	"github.com/katalvlaran/countprep/scale"
)

// Log1p replaces X with log(1+X). chunkSize > 0 processes X in row chunks of
// that size; results are identical either way.
func Log1p(ds Dataset, chunkSize int, opts ...Option) (*anndata.Dataset, error) {
	ret, err := applyX(ds, matrix.Log1p, chunkSize, opts...)
	if err != nil {
		return nil, fmt.Errorf("pp.Log1p: %w", err)
	}
	return ret, nil
}

// Sqrt replaces X with sqrt(X). chunkSize as in Log1p.
func Sqrt(ds Dataset, chunkSize int, opts ...Option) (*anndata.Dataset, error) {
	ret, err := applyX(ds, matrix.Sqrt, chunkSize, opts...)
	if err != nil {
		return nil, fmt.Errorf("pp.Sqrt: %w", err)
	}
	return ret, nil
}

func applyX(ds Dataset, fn matrix.ElementFunc, chunkSize int, opts ...Option) (*anndata.Dataset, error) {
	o := gatherOptions(opts...)
	work, ret, err := begin(ds, o)
	if err != nil {
		return nil, err
	}
	if chunkSize > 0 {
		err = matrix.ChunkedApply(work.X(), fn, matrix.WithChunkSize(chunkSize))
	} else {
		err = work.X().ApplyZeroPreserving(fn)
	}
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// Scale standardizes the columns of X to zero mean (when zeroCenter) and unit
// variance, then caps values above clipMax when it is non-nil.
//
// Zero-centering a CSR X densifies it first; the densification is logged.
func Scale(ds Dataset, zeroCenter bool, clipMax *float64, opts ...Option) (*anndata.Dataset, error) {
	o := gatherOptions(opts...)
	work, ret, err := begin(ds, o)
	if err != nil {
		return nil, fmt.Errorf("pp.Scale: %w", err)
	}
	x := work.X()
	if zeroCenter && x.Kind() == matrix.KindCSR {
		o.logger.Info("densifying sparse X for zero-centered scaling",
			zap.Int("rows", x.Rows()), zap.Int("cols", x.Cols()))
		x = x.ToDense()
	}
	sopts := []scale.Option{scale.WithZeroCenter(zeroCenter), scale.WithLogger(o.logger)}
	if clipMax != nil {
		if !zeroCenter {
			o.logger.Debug("clipping without zero-centering")
		}
		sopts = append(sopts, scale.WithClipMax(*clipMax))
	}
	if x, _, err = scale.Apply(x, sopts...); err != nil {
		return nil, fmt.Errorf("pp.Scale: %w", err)
	}
	if err = work.SetX(x); err != nil {
		return nil, fmt.Errorf("pp.Scale: %w", err)
	}

	return ret, nil
}
