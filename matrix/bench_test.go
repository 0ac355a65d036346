// SPDX-License-Identifier: MIT

// Package matrix_test provides benchmarks for the Dense and CSR fast paths,
// using deterministic sparse random fill.
package matrix_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/countprep/matrix"
)

// benchShapes are rows×cols; count matrices are tall and mostly zero.
var benchShapes = [][2]int{{1000, 500}, {4000, 2000}}

// sinks to defeat dead-code elimination
var (
	sinkV   []float64
	sinkErr error
)

// countsDense fills an r×c matrix with ~10% nonzero small counts.
func countsDense(b *testing.B, r, c int, seed int64) *matrix.Dense {
	b.Helper()
	rnd := rand.New(rand.NewSource(seed))
	data := make([]float64, r*c)
	for i := range data {
		if rnd.Intn(10) == 0 {
			data[i] = float64(1 + rnd.Intn(20))
		}
	}
	d, err := matrix.NewDenseFrom(r, c, data)
	if err != nil {
		b.Fatal(err)
	}
	return d
}

func forShapes(b *testing.B, fn func(b *testing.B, m matrix.Matrix)) {
	for _, sh := range benchShapes {
		d := countsDense(b, sh[0], sh[1], 1337)
		for _, m := range []matrix.Matrix{d, matrix.CSRFromDense(d)} {
			b.Run(fmt.Sprintf("%s/%dx%d", m.Kind(), sh[0], sh[1]), func(b *testing.B) {
				b.ReportAllocs()
				fn(b, m)
			})
		}
	}
}

func BenchmarkRowReduce(b *testing.B) {
	forShapes(b, func(b *testing.B, m matrix.Matrix) {
		for i := 0; i < b.N; i++ {
			sinkV = m.RowReduce(matrix.ReduceSum)
		}
	})
}

func BenchmarkColMeanVar(b *testing.B) {
	forShapes(b, func(b *testing.B, m matrix.Matrix) {
		for i := 0; i < b.N; i++ {
			sinkV, _, sinkErr = matrix.ColMeanVar(m)
		}
	})
}

func BenchmarkRowScale(b *testing.B) {
	forShapes(b, func(b *testing.B, m matrix.Matrix) {
		f := make([]float64, m.Rows())
		for i := range f {
			f[i] = 1
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			sinkErr = m.RowScale(f)
		}
	})
}

func BenchmarkChunkedLog1p(b *testing.B) {
	forShapes(b, func(b *testing.B, m matrix.Matrix) {
		for i := 0; i < b.N; i++ {
			c := m.Clone()
			sinkErr = matrix.ChunkedApply(c, matrix.Log1p, matrix.WithChunkSize(256))
		}
	})
}
