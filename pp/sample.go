// SPDX-License-Identifier: MIT

package pp

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/countprep/anndata"
	"github.com/katalvlaran/countprep/downsample"
	"github.com/katalvlaran/countprep/subsample"
)

// DownsampleCounts caps the total of every observation of X at target by
// seeded resampling of its counts.
func DownsampleCounts(ds Dataset, target, seed int64, replace bool, opts ...Option) (*anndata.Dataset, error) {
	o := gatherOptions(opts...)
	work, ret, err := begin(ds, o)
	if err != nil {
		return nil, fmt.Errorf("pp.DownsampleCounts: %w", err)
	}
	_, res, err := downsample.Counts(work.X(), target,
		downsample.WithSeed(seed), downsample.WithReplace(replace), downsample.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("pp.DownsampleCounts: %w", err)
	}
	o.logger.Info("downsampled counts", zap.Int("rows", len(res.Rows)), zap.Int64("target", target))

	return ret, nil
}

// Subsample keeps a seeded uniform subset of the observations.
func Subsample(ds Dataset, size subsample.Size, seed int64, opts ...Option) (*anndata.Dataset, error) {
	o := gatherOptions(opts...)
	work, ret, err := begin(ds, o)
	if err != nil {
		return nil, fmt.Errorf("pp.Subsample: %w", err)
	}
	bm, err := subsample.Bitmap(work.NObs(), size, seed)
	if err != nil {
		return nil, fmt.Errorf("pp.Subsample: %w", err)
	}
	if err = work.SelectObs(bm); err != nil {
		return nil, fmt.Errorf("pp.Subsample: %w", err)
	}
	o.logger.Info("subsampled observations", zap.Int("kept", work.NObs()))

	return ret, nil
}
