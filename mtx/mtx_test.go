// SPDX-License-Identifier: MIT

package mtx_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/countprep/matrix"
	"github.com/katalvlaran/countprep/mtx"
)

const coordinate = `%%MatrixMarket matrix coordinate integer general
% cells x genes
3 4 4
3 1 7
1 2 5
1 4 1

2 3 2
`

func TestReadCoordinate(t *testing.T) {
	m, err := mtx.Read(strings.NewReader(coordinate))
	require.NoError(t, err)
	require.Equal(t, matrix.KindCSR, m.Kind())
	require.Equal(t, []float64{
		0, 5, 0, 1,
		0, 0, 2, 0,
		7, 0, 0, 0,
	}, m.ToDense().RawData())
}

func TestReadPatternAndArray(t *testing.T) {
	m, err := mtx.Read(strings.NewReader("%%MatrixMarket matrix coordinate pattern general\n2 2 2\n1 1\n2 2\n"))
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, 0, 1}, m.ToDense().RawData())

	// array layout is column-major
	m, err = mtx.Read(strings.NewReader("%%MatrixMarket matrix array real general\n2 3\n1\n2\n3\n4\n5\n6\n"))
	require.NoError(t, err)
	require.Equal(t, matrix.KindDense, m.Kind())
	require.Equal(t, []float64{1, 3, 5, 2, 4, 6}, m.ToDense().RawData())
}

// TestReadDuplicateEntries sums repeated cells so the sparse result behaves
// exactly like its dense view.
func TestReadDuplicateEntries(t *testing.T) {
	in := "%%MatrixMarket matrix coordinate integer general\n2 2 3\n1 1 1\n2 2 5\n1 1 1\n"
	m, err := mtx.Read(strings.NewReader(in))
	require.NoError(t, err)
	s, ok := m.(*matrix.CSR)
	require.True(t, ok)
	require.Equal(t, 2, s.NNZ())

	d := s.ToDense()
	require.Equal(t, []float64{2, 0, 0, 5}, d.RawData())
	require.Equal(t, d.RowReduce(matrix.ReduceNonzero), s.RowReduce(matrix.ReduceNonzero))
	require.Equal(t, d.ColReduce(matrix.ReduceNonzero), s.ColReduce(matrix.ReduceNonzero))

	dMean, dVar, err := matrix.ColMeanVar(d)
	require.NoError(t, err)
	sMean, sVar, err := matrix.ColMeanVar(s)
	require.NoError(t, err)
	require.InDeltaSlice(t, dMean, sMean, 1e-12)
	require.InDeltaSlice(t, dVar, sVar, 1e-12)

	require.NoError(t, d.ApplyZeroPreserving(matrix.Log1p))
	require.NoError(t, s.ApplyZeroPreserving(matrix.Log1p))
	require.InDeltaSlice(t, d.RawData(), s.ToDense().RawData(), 1e-12)
}

func TestReadErrors(t *testing.T) {
	cases := map[string]struct {
		in   string
		want error
	}{
		"empty":          {"", mtx.ErrFormat},
		"bad banner":     {"%%Matrix matrix coordinate real general\n1 1 0\n", mtx.ErrFormat},
		"symmetric":      {"%%MatrixMarket matrix coordinate real symmetric\n1 1 0\n", mtx.ErrUnsupported},
		"complex":        {"%%MatrixMarket matrix coordinate complex general\n1 1 0\n", mtx.ErrUnsupported},
		"short":          {"%%MatrixMarket matrix coordinate real general\n2 2 2\n1 1 3\n", mtx.ErrFormat},
		"out of range":   {"%%MatrixMarket matrix coordinate real general\n2 2 1\n3 1 3\n", mtx.ErrFormat},
		"extra entries":  {"%%MatrixMarket matrix coordinate real general\n2 2 1\n1 1 3\n2 2 4\n", mtx.ErrFormat},
		"huge count":     {"%%MatrixMarket matrix coordinate real general\n2 2 1099511627776\n1 1 3\n", mtx.ErrFormat},
		"huge array":     {"%%MatrixMarket matrix array real general\n1048576 1048576\n1\n", mtx.ErrFormat},
		"bad value":      {"%%MatrixMarket matrix coordinate real general\n2 2 1\n1 1 x\n", mtx.ErrFormat},
		"missing size":   {"%%MatrixMarket matrix coordinate real general\n% only comments\n", mtx.ErrFormat},
		"vector objects": {"%%MatrixMarket vector coordinate real general\n2 1\n", mtx.ErrUnsupported},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := mtx.Read(strings.NewReader(tc.in))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestWriteReadCompressed(t *testing.T) {
	src, err := mtx.Read(strings.NewReader(coordinate))
	require.NoError(t, err)

	for _, c := range []mtx.Compression{mtx.None, mtx.Gzip, mtx.Zstd} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, mtx.Write(&buf, src, c))
			got, err := mtx.Read(&buf)
			require.NoError(t, err)
			require.Equal(t, src.ToDense().RawData(), got.ToDense().RawData())
		})
	}
}

func TestWriteFileByExtension(t *testing.T) {
	d, err := matrix.NewDenseFrom(2, 2, []float64{0, 1.5, 2, 0})
	require.NoError(t, err)
	dir := t.TempDir()
	for _, name := range []string{"m.mtx", "m.mtx.gz", "m.mtx.zst"} {
		path := filepath.Join(dir, name)
		require.NoError(t, mtx.WriteFile(path, d))
		got, err := mtx.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, d.RawData(), got.ToDense().RawData())
	}
	require.Equal(t, mtx.Gzip, mtx.CompressionFor("a/b.mtx.gz"))
	require.Equal(t, mtx.None, mtx.CompressionFor("a/b.mtx"))
}
