// SPDX-License-Identifier: MIT

package scale

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/countprep/matrix"
)

// zscoreEps keeps constant columns finite in ZScore.
const zscoreEps = 1e-4

// ZScore returns (X − mean)/(std + 1e-4) per column using the population
// standard deviation. It is the older standardization kept for callers that
// depend on its exact numbers; prefer Apply.
func ZScore(X *matrix.Dense) (*matrix.Dense, error) {
	if X == nil {
		return nil, fmt.Errorf("scale.ZScore: %w", matrix.ErrNilMatrix)
	}
	r, c := X.Shape()
	out := X.ToDense()
	data := out.RawData()
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			col[i] = data[i*c+j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		for i := 0; i < r; i++ {
			data[i*c+j] = (col[i] - mean) / (std + zscoreEps)
		}
	}

	return out, nil
}
