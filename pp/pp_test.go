// SPDX-License-Identifier: MIT

package pp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/countprep/anndata"
	"github.com/katalvlaran/countprep/filter"
	"github.com/katalvlaran/countprep/matrix"
	"github.com/katalvlaran/countprep/normalize"
	"github.com/katalvlaran/countprep/pp"
	"github.com/katalvlaran/countprep/subsample"
)

// counts is the 4×3 fixture
//
//	[1 0 2]
//	[0 0 0]
//	[3 0 1]
//	[5 0 0]
func counts(t *testing.T, sparse bool) *anndata.Dataset {
	t.Helper()
	d, err := matrix.NewDenseFrom(4, 3, []float64{1, 0, 2, 0, 0, 0, 3, 0, 1, 5, 0, 0})
	require.NoError(t, err)
	var x matrix.Matrix = d
	if sparse {
		x = matrix.CSRFromDense(d)
	}
	ds, err := anndata.New(x)
	require.NoError(t, err)
	return ds
}

func obs(t *testing.T, ds *anndata.Dataset, key string) []float64 {
	t.Helper()
	c, ok := ds.ObsColumn(key)
	require.True(t, ok, key)
	return c.(anndata.Numeric)
}

func TestFilterCells(t *testing.T) {
	for _, sparse := range []bool{false, true} {
		ds := counts(t, sparse)
		ret, err := pp.FilterCells(ds, filter.Criteria{MinCounts: filter.Threshold(4)})
		require.NoError(t, err)
		require.Nil(t, ret) // in place
		require.Equal(t, 2, ds.NObs())
		require.Equal(t, []float64{4, 5}, obs(t, ds, "n_counts"))

		ds = counts(t, sparse)
		_, err = pp.FilterCells(ds, filter.Criteria{MinNonzero: filter.Threshold(2)})
		require.NoError(t, err)
		require.Equal(t, []float64{2, 2}, obs(t, ds, "n_genes"))
	}

	_, err := pp.FilterCells(counts(t, false), filter.Criteria{})
	require.ErrorIs(t, err, filter.ErrNoCriterion)
	_, err = pp.FilterCells(nil, filter.Criteria{MinCounts: filter.Threshold(1)})
	require.ErrorIs(t, err, pp.ErrNilDataset)
}

func TestFilterGenesCopy(t *testing.T) {
	ds := counts(t, true)
	core, logs := observer.New(zapcore.InfoLevel)
	out, err := pp.FilterGenes(ds, filter.Criteria{MinNonzero: filter.Threshold(1)},
		pp.WithCopy(true), pp.WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Equal(t, 2, out.NVars())
	require.Equal(t, 3, ds.NVars()) // original untouched

	c, ok := out.VarColumn("n_cells")
	require.True(t, ok)
	require.Equal(t, anndata.Numeric{3, 2}, c)
	require.Equal(t, 1, logs.FilterMessage("filtered out genes").Len())
}

func TestNormalizePerCell(t *testing.T) {
	for _, sparse := range []bool{false, true} {
		ds := counts(t, sparse)
		require.NoError(t, ds.SetLayer("raw", ds.X().Clone()))

		_, err := pp.NormalizePerCell(ds, pp.NormalizeConfig{Layers: []string{"raw"}, UseRep: pp.UseRepX})
		require.NoError(t, err)

		// the all-zero row is dropped
		require.Equal(t, 3, ds.NObs())
		require.Equal(t, []float64{3, 4, 5}, obs(t, ds, "n_counts"))

		target, ok := ds.Uns("normalize_per_cell")
		require.True(t, ok)
		require.Equal(t, 4.0, target)
		require.InDeltaSlice(t, []float64{4, 4, 4}, matrix.RowSums(ds.X()), 1e-12)

		raw, _ := ds.Layer("raw")
		require.InDeltaSlice(t, []float64{4, 4, 4}, matrix.RowSums(raw), 1e-12)
		require.Equal(t, sparse, raw.Kind() == matrix.KindCSR)
	}
}

func TestNormalizePerCellTargetAndErrors(t *testing.T) {
	ds := counts(t, false)
	_, err := pp.NormalizePerCell(ds, pp.NormalizeConfig{TargetTotal: 10, KeyNCounts: "total"})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{10, 10, 10}, matrix.RowSums(ds.X()), 1e-12)
	require.Len(t, obs(t, ds, "total"), 3)

	_, err = pp.NormalizePerCell(counts(t, false), pp.NormalizeConfig{UseRep: "bogus"})
	require.ErrorIs(t, err, pp.ErrInvalidUseRep)
	_, err = pp.NormalizePerCell(counts(t, false), pp.NormalizeConfig{Layers: []string{"missing"}})
	require.ErrorIs(t, err, pp.ErrUnknownKey)
}

// TestNormalizePerCellFailureKeepsDataset checks nothing is written when no
// observation reaches the minimum total.
func TestNormalizePerCellFailureKeepsDataset(t *testing.T) {
	for _, sparse := range []bool{false, true} {
		ds := counts(t, sparse)
		require.NoError(t, ds.SetLayer("raw", ds.X().Clone()))
		before := ds.X().ToDense().RawData()

		hundred := 100.0
		_, err := pp.NormalizePerCell(ds, pp.NormalizeConfig{MinCounts: &hundred, Layers: []string{"raw"}})
		require.ErrorIs(t, err, normalize.ErrNoReferenceRows)

		require.Equal(t, 4, ds.NObs())
		require.Equal(t, before, ds.X().ToDense().RawData())
		_, ok := ds.ObsColumn(pp.DefaultKeyNCounts)
		require.False(t, ok)
		_, ok = ds.Uns("normalize_per_cell")
		require.False(t, ok)
		raw, _ := ds.Layer("raw")
		require.Equal(t, before, raw.ToDense().RawData())
	}
}

// TestNormalizePerCellUseRepX sends layers to the kept X median even when X
// itself has an explicit target.
func TestNormalizePerCellUseRepX(t *testing.T) {
	ds := counts(t, true)
	require.NoError(t, ds.SetLayer("raw", ds.X().Clone()))
	_, err := pp.NormalizePerCell(ds, pp.NormalizeConfig{TargetTotal: 10, Layers: []string{"raw"}, UseRep: pp.UseRepX})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{10, 10, 10}, matrix.RowSums(ds.X()), 1e-12)
	raw, _ := ds.Layer("raw")
	require.InDeltaSlice(t, []float64{4, 4, 4}, matrix.RowSums(raw), 1e-12) // median of {3,4,5}
}

// TestNormalizePerCellLayerOwnMedian uses the plain median of the layer
// totals, zero rows included.
func TestNormalizePerCellLayerOwnMedian(t *testing.T) {
	ds := counts(t, false)
	l, err := matrix.NewDenseFrom(4, 3, []float64{0, 0, 0, 0, 0, 0, 1, 0, 0, 2, 0, 0})
	require.NoError(t, err)
	require.NoError(t, ds.SetLayer("spliced", l))

	zero := 0.0
	_, err = pp.NormalizePerCell(ds, pp.NormalizeConfig{MinCounts: &zero, Layers: []string{"spliced"}})
	require.NoError(t, err)
	require.Equal(t, 4, ds.NObs())

	// layer totals {0,0,1,2} have median 0.5
	spliced, _ := ds.Layer("spliced")
	require.InDeltaSlice(t, []float64{0, 0, 0.5, 0.5}, matrix.RowSums(spliced), 1e-12)
}

func TestLog1pChunkedMatchesWhole(t *testing.T) {
	a, b := counts(t, true), counts(t, true)
	_, err := pp.Log1p(a, 0)
	require.NoError(t, err)
	_, err = pp.Log1p(b, 1)
	require.NoError(t, err)
	require.Equal(t, a.X().ToDense().RawData(), b.X().ToDense().RawData())

	v, _ := a.X().At(3, 0)
	require.InDelta(t, math.Log(6), v, 1e-12)

	_, err = pp.Sqrt(a, 2)
	require.NoError(t, err)
}

func TestScaleDensifiesSparse(t *testing.T) {
	ds := counts(t, true)
	core, logs := observer.New(zapcore.InfoLevel)
	clip := 1.0
	_, err := pp.Scale(ds, true, &clip, pp.WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.Equal(t, matrix.KindDense, ds.X().Kind())
	require.Equal(t, 1, logs.FilterMessage("densifying sparse X for zero-centered scaling").Len())
	for _, v := range ds.X().ToDense().RawData() {
		require.LessOrEqual(t, v, 1.0)
	}

	sp := counts(t, true)
	_, err = pp.Scale(sp, false, nil)
	require.NoError(t, err)
	require.Equal(t, matrix.KindCSR, sp.X().Kind())
}

func TestRegressOut(t *testing.T) {
	x, err := matrix.NewDenseFrom(4, 2, []float64{
		1, 10,
		3, 10,
		5, 20,
		7, 20,
	})
	require.NoError(t, err)
	ds, err := anndata.New(x)
	require.NoError(t, err)
	require.NoError(t, ds.SetObsColumn("depth", anndata.Numeric{0, 1, 2, 3}))
	require.NoError(t, ds.SetObsColumn("batch", anndata.NewCategorical([]string{"a", "a", "b", "b"})))

	out, err := pp.RegressOut(ds, []string{"depth"}, 2, pp.WithCopy(true))
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0, 0, 0, 0}, colOf(out.X(), 0), 1e-9)

	out, err = pp.RegressOut(ds, []string{"batch"}, 1, pp.WithCopy(true))
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0, 0, 0, 0}, colOf(out.X(), 1), 1e-9)

	_, err = pp.RegressOut(ds, []string{"batch", "depth"}, 1)
	require.ErrorIs(t, err, pp.ErrCategoricalKeys)
	_, err = pp.RegressOut(ds, []string{"nope"}, 1)
	require.ErrorIs(t, err, pp.ErrUnknownKey)
	_, err = pp.RegressOut(ds, nil, 1)
	require.ErrorIs(t, err, pp.ErrNoKeys)
}

func colOf(m matrix.Matrix, j int) []float64 {
	out := make([]float64, m.Rows())
	for i := range out {
		out[i], _ = m.At(i, j)
	}
	return out
}

func TestDownsampleCounts(t *testing.T) {
	ds := counts(t, true)
	_, err := pp.DownsampleCounts(ds, 2, 0, true)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 0, 2, 2}, matrix.RowSums(ds.X()))
}

func TestSubsample(t *testing.T) {
	ds := counts(t, false)
	require.NoError(t, ds.SetObsColumn("id", anndata.Numeric{0, 1, 2, 3}))
	out, err := pp.Subsample(ds, subsample.Fraction(0.5), 7, pp.WithCopy(true))
	require.NoError(t, err)
	require.Equal(t, 2, out.NObs())
	require.Equal(t, 4, ds.NObs())

	ids := obs(t, out, "id")
	want, err := subsample.Rows(4, subsample.Fraction(0.5), 7)
	require.NoError(t, err)
	for k, i := range want {
		require.Equal(t, float64(i), ids[k])
	}
}

func TestPCA(t *testing.T) {
	x, err := matrix.NewDenseFrom(5, 3, []float64{
		2, 0, 1,
		4, 1, 2,
		6, 0, 3,
		8, 1, 4,
		10, 0, 5,
	})
	require.NoError(t, err)
	ds, err := anndata.New(x)
	require.NoError(t, err)

	_, err = pp.PCA(ds, 2)
	require.NoError(t, err)
	emb, ok := ds.Obsm("X_pca")
	require.True(t, ok)
	r, c := emb.Dims()
	require.Equal(t, 5, r)
	require.Equal(t, 2, c)

	v, ok := ds.Uns("pca")
	require.True(t, ok)
	info := v.(pp.PCAInfo)
	require.Len(t, info.VarianceRatio, 2)
	require.GreaterOrEqual(t, info.Variance[0], info.Variance[1])
	require.Greater(t, info.VarianceRatio[0], 0.9)
	pr, pc := info.Components.Dims()
	require.Equal(t, 3, pr)
	require.Equal(t, 2, pc)

	// projections are centered
	require.InDelta(t, 0, mat.Sum(emb.ColView(0)), 1e-9)

	_, err = pp.PCA(ds, 4)
	require.ErrorIs(t, err, pp.ErrInvalidComponents)
}
