// SPDX-License-Identifier: MIT

package pp

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/countprep/anndata"
	"github.com/katalvlaran/countprep/filter"
	"github.com/katalvlaran/countprep/matrix"
)

// FilterCells drops observations failing c, after recording the per-cell
// statistic as obs "n_counts" (count criteria) or "n_genes" (nonzero criteria).
func FilterCells(ds Dataset, c filter.Criteria, opts ...Option) (*anndata.Dataset, error) {
	o := gatherOptions(opts...)
	work, ret, err := begin(ds, o)
	if err != nil {
		return nil, fmt.Errorf("pp.FilterCells: %w", err)
	}
	mask, stat, mode, err := c.Apply(work.X(), matrix.AxisRows)
	if err != nil {
		return nil, fmt.Errorf("pp.FilterCells: %w", err)
	}
	key := "n_counts"
	if mode == matrix.ReduceNonzero {
		key = "n_genes"
	}
	if err = work.SetObsColumn(key, anndata.Numeric(stat)); err != nil {
		return nil, fmt.Errorf("pp.FilterCells: %w", err)
	}
	if err = work.SubsetObs(mask); err != nil {
		return nil, fmt.Errorf("pp.FilterCells: %w", err)
	}
	logFiltered(o.logger, "cells", len(mask)-mask.Count(), key)

	return ret, nil
}

// FilterGenes drops variables failing c, after recording the per-gene
// statistic as var "n_counts" (count criteria) or "n_cells" (nonzero criteria).
func FilterGenes(ds Dataset, c filter.Criteria, opts ...Option) (*anndata.Dataset, error) {
	o := gatherOptions(opts...)
	work, ret, err := begin(ds, o)
	if err != nil {
		return nil, fmt.Errorf("pp.FilterGenes: %w", err)
	}
	mask, stat, mode, err := c.Apply(work.X(), matrix.AxisCols)
	if err != nil {
		return nil, fmt.Errorf("pp.FilterGenes: %w", err)
	}
	key := "n_counts"
	if mode == matrix.ReduceNonzero {
		key = "n_cells"
	}
	if err = work.SetVarColumn(key, anndata.Numeric(stat)); err != nil {
		return nil, fmt.Errorf("pp.FilterGenes: %w", err)
	}
	if err = work.SubsetVars(mask); err != nil {
		return nil, fmt.Errorf("pp.FilterGenes: %w", err)
	}
	logFiltered(o.logger, "genes", len(mask)-mask.Count(), key)

	return ret, nil
}

func logFiltered(l *zap.Logger, what string, removed int, key string) {
	if removed == 0 {
		return
	}
	l.Info("filtered out "+what, zap.Int("removed", removed), zap.String("statistic", key))
}
