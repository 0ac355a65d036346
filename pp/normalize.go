// SPDX-License-Identifier: MIT

package pp

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/countprep/anndata"
	"github.com/katalvlaran/countprep/filter"
	"github.com/katalvlaran/countprep/matrix"
	"github.com/katalvlaran/countprep/normalize"
)

// DefaultKeyNCounts is the obs key NormalizePerCell stores totals under.
const DefaultKeyNCounts = "n_counts"

// Layer target sources for NormalizeConfig.UseRep.
const (
	UseRepNone  = ""      // each layer is normalized to the median of its own totals
	UseRepAfter = "after" // layers use TargetTotal
	UseRepX     = "X"     // layers use the median of the kept X totals
)

// NormalizeConfig configures NormalizePerCell.
type NormalizeConfig struct {
	TargetTotal float64  // 0 ⇒ median of kept totals
	KeyNCounts  string   // "" ⇒ DefaultKeyNCounts
	MinCounts   *float64 // nil ⇒ normalize.DefaultMinTotal
	Layers      []string
	AllLayers   bool // overrides Layers with every layer of the dataset
	UseRep      string
}

// NormalizePerCell normalizes every observation to the same total.
//
// Steps:
//  1. Observations with total < MinCounts are dropped; the totals of all
//     observations are stored in obs KeyNCounts first.
//  2. X rows are scaled to TargetTotal (median of the kept totals when 0).
//  3. Each requested layer is normalized by its own row totals, towards the
//     target chosen by UseRep. Without UseRep a layer's target is the median
//     of all its kept row totals.
//
// X and the layers are normalized on the kept rows before anything is written,
// so a failing call leaves the dataset unchanged.
//
// The target applied to X is stored in uns "normalize_per_cell".
func NormalizePerCell(ds Dataset, cfg NormalizeConfig, opts ...Option) (*anndata.Dataset, error) {
	o := gatherOptions(opts...)
	if cfg.UseRep != UseRepNone && cfg.UseRep != UseRepAfter && cfg.UseRep != UseRepX {
		return nil, fmt.Errorf("pp.NormalizePerCell: %q: %w", cfg.UseRep, ErrInvalidUseRep)
	}
	key := cfg.KeyNCounts
	if key == "" {
		key = DefaultKeyNCounts
	}
	minCounts := normalize.DefaultMinTotal
	if cfg.MinCounts != nil {
		minCounts = *cfg.MinCounts
	}
	work, ret, err := begin(ds, o)
	if err != nil {
		return nil, fmt.Errorf("pp.NormalizePerCell: %w", err)
	}
	layers := cfg.Layers
	if cfg.AllLayers {
		layers = work.LayerNames()
	}
	for _, name := range layers {
		if _, ok := work.Layer(name); !ok {
			return nil, fmt.Errorf("pp.NormalizePerCell: layer %q: %w", name, ErrUnknownKey)
		}
	}

	mask, counts, err := filter.ByAxis(work.X(), matrix.AxisRows, filter.BoundMin, minCounts, matrix.ReduceSum)
	if err != nil {
		return nil, fmt.Errorf("pp.NormalizePerCell: %w", err)
	}
	idx := mask.Indices()
	kept := make([]float64, 0, len(idx))
	for _, i := range idx {
		kept = append(kept, counts[i])
	}

	sel, err := work.X().SelectRows(idx)
	if err != nil {
		return nil, fmt.Errorf("pp.NormalizePerCell: %w", err)
	}
	nopts := []normalize.Option{normalize.WithTotals(kept), normalize.WithMinTotal(minCounts)}
	if cfg.TargetTotal > 0 {
		nopts = append(nopts, normalize.WithTargetTotal(cfg.TargetTotal))
	}
	x, res, err := normalize.Rows(sel, nopts...)
	if err != nil {
		return nil, fmt.Errorf("pp.NormalizePerCell: %w", err)
	}
	target := res.TargetTotal

	var layerTarget float64
	switch cfg.UseRep {
	case UseRepAfter:
		layerTarget = cfg.TargetTotal
	case UseRepX:
		if layerTarget, err = normalize.MedianTotal(kept, minCounts); err != nil {
			return nil, fmt.Errorf("pp.NormalizePerCell: %w", err)
		}
	}
	normalized := make([]matrix.Matrix, len(layers))
	for k, name := range layers {
		if normalized[k], err = normalizeLayer(work, name, idx, layerTarget); err != nil {
			return nil, fmt.Errorf("pp.NormalizePerCell: layer %q: %w", name, err)
		}
	}

	if err = work.SetObsColumn(key, anndata.Numeric(counts)); err != nil {
		return nil, fmt.Errorf("pp.NormalizePerCell: %w", err)
	}
	if err = work.SubsetObs(mask); err != nil {
		return nil, fmt.Errorf("pp.NormalizePerCell: %w", err)
	}
	if err = work.SetX(x); err != nil {
		return nil, fmt.Errorf("pp.NormalizePerCell: %w", err)
	}
	for k, name := range layers {
		if err = work.SetLayer(name, normalized[k]); err != nil {
			return nil, fmt.Errorf("pp.NormalizePerCell: layer %q: %w", name, err)
		}
	}
	work.SetUns("normalize_per_cell", target)
	o.logger.Info("normalized counts per cell",
		zap.Float64("target_total", target),
		zap.Int("removed", len(mask)-len(idx)),
		zap.Strings("layers", layers))

	return ret, nil
}

// normalizeLayer returns the kept rows of layer name scaled to target, or to
// the median of their totals when target is 0.
func normalizeLayer(ds Dataset, name string, idx []int, target float64) (matrix.Matrix, error) {
	l, _ := ds.Layer(name)
	out, err := l.SelectRows(idx)
	if err != nil {
		return nil, err
	}
	totals := out.RowReduce(matrix.ReduceSum)
	if target <= 0 {
		if target, err = normalize.Median(totals); err != nil {
			return nil, err
		}
	}
	if err = out.RowScale(normalize.Factors(totals, target)); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeExcludingDominant normalizes X by row totals restricted to the
// columns that never exceed maxFraction of a row total (see
// normalize.ExcludingDominant).
func NormalizeExcludingDominant(ds Dataset, maxFraction float64, multWithMean bool, opts ...Option) (*anndata.Dataset, error) {
	o := gatherOptions(opts...)
	work, ret, err := begin(ds, o)
	if err != nil {
		return nil, fmt.Errorf("pp.NormalizeExcludingDominant: %w", err)
	}
	x, err := normalize.ExcludingDominant(work.X(), maxFraction, multWithMean)
	if err != nil {
		return nil, fmt.Errorf("pp.NormalizeExcludingDominant: %w", err)
	}
	if err = work.SetX(x); err != nil {
		return nil, fmt.Errorf("pp.NormalizeExcludingDominant: %w", err)
	}

	return ret, nil
}
