// SPDX-License-Identifier: MIT

package pipeline_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/countprep/anndata"
	"github.com/katalvlaran/countprep/matrix"
	"github.com/katalvlaran/countprep/pipeline"
)

func dataset(t *testing.T) *anndata.Dataset {
	t.Helper()
	d, err := matrix.NewDenseFrom(5, 4, []float64{
		4, 0, 2, 1,
		0, 0, 1, 0,
		3, 0, 5, 2,
		6, 0, 1, 3,
		2, 0, 4, 4,
	})
	require.NoError(t, err)
	ds, err := anndata.New(matrix.CSRFromDense(d))
	require.NoError(t, err)
	return ds
}

func TestRun(t *testing.T) {
	cfg, err := pipeline.Parse(strings.NewReader(`
steps:
  - filter_cells: {min_counts: 2}
  - filter_genes: {min_nonzero: 1}
  - downsample_counts: {target: 6}
  - normalize_per_cell: {target_total: 10}
  - log1p: {}
  - subsample: {count: 3}
  - scale: {}
  - pca: {n_comps: 2}
`))
	require.NoError(t, err)

	ds := dataset(t)
	core, logs := observer.New(zapcore.InfoLevel)
	require.NoError(t, cfg.Run(ds, zap.New(core)))

	require.Equal(t, 3, ds.NObs())
	require.Equal(t, 3, ds.NVars())
	require.Equal(t, matrix.KindDense, ds.X().Kind()) // densified by zero-centered scaling
	_, ok := ds.Obsm("X_pca")
	require.True(t, ok)
	require.Equal(t, 8, logs.FilterMessage("running step").Len())
}

func TestRunStopsAtFailingStep(t *testing.T) {
	cfg, err := pipeline.Parse(strings.NewReader("steps:\n  - regress_out: {keys: [missing]}\n"))
	require.NoError(t, err)
	err = cfg.Run(dataset(t), nil)
	require.ErrorContains(t, err, "step 0 (regress_out)")
}
