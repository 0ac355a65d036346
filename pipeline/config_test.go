// SPDX-License-Identifier: MIT

package pipeline_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/countprep/filter"
	"github.com/katalvlaran/countprep/pipeline"
)

const recipe = `
seed: 3
parallelism: 2
steps:
  - filter_cells: {min_counts: 2}
  - filter_genes: {min_nonzero: 1}
  - normalize_per_cell: {target_total: 10, use_rep: after}
  - log1p: {chunk_size: 2}
  - scale: {zero_center: false, clip_max: 5}
`

func TestParse(t *testing.T) {
	cfg, err := pipeline.Parse(strings.NewReader(recipe))
	require.NoError(t, err)
	require.EqualValues(t, 3, cfg.Seed)
	require.Equal(t, 2, cfg.Parallelism)
	require.Len(t, cfg.Steps, 5)

	names := make([]string, len(cfg.Steps))
	for i, s := range cfg.Steps {
		names[i] = s.Name()
	}
	require.Equal(t, []string{"filter_cells", "filter_genes", "normalize_per_cell", "log1p", "scale"}, names)
	require.Equal(t, filter.Criteria{MinCounts: filter.Threshold(2)}, *cfg.Steps[0].FilterCells)
	require.Equal(t, "after", cfg.Steps[2].NormalizePerCell.UseRep)
	require.False(t, *cfg.Steps[4].Scale.ZeroCenter)
	require.Equal(t, 5.0, *cfg.Steps[4].Scale.ClipMax)
}

func TestParseDefaultsAndEnv(t *testing.T) {
	t.Setenv("COUNTPREP_SEED", "42")
	cfg, err := pipeline.Parse(strings.NewReader("steps:\n  - sqrt: {}\n"))
	require.NoError(t, err)
	require.EqualValues(t, 42, cfg.Seed)
	require.Equal(t, pipeline.DefaultParallelism, cfg.Parallelism)
	require.NotNil(t, cfg.Steps[0].Sqrt)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"no steps":         "seed: 1\n",
		"two ops":          "steps:\n  - log1p: {}\n    sqrt: {}\n",
		"empty step":       "steps:\n  - {}\n",
		"two criteria":     "steps:\n  - filter_cells: {min_counts: 1, max_counts: 9}\n",
		"bad use_rep":      "steps:\n  - normalize_per_cell: {use_rep: Y}\n",
		"bad fraction":     "steps:\n  - subsample: {fraction: 1.5}\n",
		"subsample both":   "steps:\n  - subsample: {fraction: 0.5, count: 3}\n",
		"no regress keys":  "steps:\n  - regress_out: {parallelism: 2}\n",
		"zero parallelism": "parallelism: 0\nsteps:\n  - log1p: {}\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := pipeline.Parse(strings.NewReader(in))
			require.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(recipe), 0o600))
	cfg, err := pipeline.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Steps, 5)

	_, err = pipeline.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
