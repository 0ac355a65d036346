// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/countprep/downsample"
	"github.com/katalvlaran/countprep/internal/zlog"
	"github.com/katalvlaran/countprep/pp"
	"github.com/katalvlaran/countprep/subsample"
)

// DefaultComponents caps the PCA components when a step leaves n_comps at 0.
const DefaultComponents = 50

// Run applies the steps to ds in order, in place. It stops at the first
// failing step.
func (c *Config) Run(ds pp.Dataset, logger *zap.Logger) error {
	logger = zlog.OrNop(logger)
	opts := []pp.Option{pp.WithLogger(logger)}
	for i, s := range c.Steps {
		name := s.Name()
		logger.Info("running step", zap.Int("index", i), zap.String("op", name),
			zap.Int("obs", ds.NObs()), zap.Int("vars", ds.NVars()))
		if err := c.runStep(ds, s, opts); err != nil {
			return fmt.Errorf("pipeline: step %d (%s): %w", i, name, err)
		}
	}
	return nil
}

func (c *Config) runStep(ds pp.Dataset, s Step, opts []pp.Option) error {
	var err error
	switch {
	case s.FilterCells != nil:
		_, err = pp.FilterCells(ds, *s.FilterCells, opts...)
	case s.FilterGenes != nil:
		_, err = pp.FilterGenes(ds, *s.FilterGenes, opts...)
	case s.NormalizePerCell != nil:
		n := s.NormalizePerCell
		_, err = pp.NormalizePerCell(ds, pp.NormalizeConfig{
			TargetTotal: n.TargetTotal,
			KeyNCounts:  n.KeyNCounts,
			MinCounts:   n.MinCounts,
			Layers:      n.Layers,
			AllLayers:   n.AllLayers,
			UseRep:      n.UseRep,
		}, opts...)
	case s.NormalizeExcludingDominant != nil:
		_, err = pp.NormalizeExcludingDominant(ds, s.NormalizeExcludingDominant.MaxFraction,
			s.NormalizeExcludingDominant.MultWithMean, opts...)
	case s.Log1p != nil:
		_, err = pp.Log1p(ds, c.chunkSize(s.Log1p), opts...)
	case s.Sqrt != nil:
		_, err = pp.Sqrt(ds, c.chunkSize(s.Sqrt), opts...)
	case s.Scale != nil:
		zeroCenter := s.Scale.ZeroCenter == nil || *s.Scale.ZeroCenter
		_, err = pp.Scale(ds, zeroCenter, s.Scale.ClipMax, opts...)
	case s.RegressOut != nil:
		p := s.RegressOut.Parallelism
		if p == 0 {
			p = c.Parallelism
		}
		_, err = pp.RegressOut(ds, s.RegressOut.Keys, p, opts...)
	case s.DownsampleCounts != nil:
		d := s.DownsampleCounts
		target, replace, seed := int64(downsample.DefaultTarget), downsample.DefaultReplace, c.Seed
		if d.Target != nil {
			target = *d.Target
		}
		if d.Replace != nil {
			replace = *d.Replace
		}
		if d.Seed != nil {
			seed = *d.Seed
		}
		_, err = pp.DownsampleCounts(ds, target, seed, replace, opts...)
	case s.Subsample != nil:
		var size subsample.Size
		if s.Subsample.Fraction != nil {
			size = subsample.Fraction(*s.Subsample.Fraction)
		} else {
			size = subsample.Count(*s.Subsample.Count)
		}
		seed := c.Seed
		if s.Subsample.Seed != nil {
			seed = *s.Subsample.Seed
		}
		_, err = pp.Subsample(ds, size, seed, opts...)
	case s.PCA != nil:
		n := s.PCA.NComps
		if n == 0 {
			n = min(DefaultComponents, ds.NObs(), ds.NVars())
		}
		_, err = pp.PCA(ds, n, opts...)
	default:
		err = ErrStep
	}
	return err
}

func (c *Config) chunkSize(t *TransformStep) int {
	if t.ChunkSize > 0 {
		return t.ChunkSize
	}
	return c.ChunkSize
}
