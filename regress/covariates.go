// SPDX-License-Identifier: MIT

package regress

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/countprep/matrix"
)

// ErrInvalidCovariates is returned for an unset Covariates value or negative group codes.
var ErrInvalidCovariates = errors.New("regress: invalid covariates")

type covKind uint8

const (
	covUnset covKind = iota
	covNumeric
	covCategorical
)

// Covariates is either a numeric table or a categorical grouping. Build it with
// Intercept, Numeric or Categorical; the zero value is invalid.
type Covariates struct {
	kind    covKind
	numeric *mat.Dense // rows × k, nil for intercept-only
	groups  []int      // group code per row, >= 0
}

// Intercept regresses on a constant only; residuals are the column minus its mean.
func Intercept() Covariates { return Covariates{kind: covNumeric} }

// Numeric regresses on an intercept plus the columns of m (rows × k).
func Numeric(m *mat.Dense) Covariates { return Covariates{kind: covNumeric, numeric: m} }

// Categorical regresses each column on its per-group means. codes[i] is the
// group of row i; codes must be >= 0.
func Categorical(codes []int) Covariates { return Covariates{kind: covCategorical, groups: codes} }

// IsCategorical reports whether c is a categorical grouping.
func (c Covariates) IsCategorical() bool { return c.kind == covCategorical }

// validate checks c against n rows and returns the number of groups (categorical).
func (c Covariates) validate(n int) (int, error) {
	switch c.kind {
	case covNumeric:
		if c.numeric != nil {
			if r, _ := c.numeric.Dims(); r != n {
				return 0, fmt.Errorf("numeric covariates have %d rows, matrix has %d: %w", r, n, matrix.ErrDimensionMismatch)
			}
		}
		return 0, nil
	case covCategorical:
		if len(c.groups) != n {
			return 0, fmt.Errorf("categorical covariate has %d rows, matrix has %d: %w", len(c.groups), n, matrix.ErrDimensionMismatch)
		}
		ng := 0
		for i, g := range c.groups {
			if g < 0 {
				return 0, fmt.Errorf("row %d has group code %d: %w", i, g, ErrInvalidCovariates)
			}
			ng = max(ng, g+1)
		}
		return ng, nil
	default:
		return 0, ErrInvalidCovariates
	}
}

// numericDesign returns [1 | numeric] as an n × (k+1) matrix.
func (c Covariates) numericDesign(n int) *mat.Dense {
	k := 0
	if c.numeric != nil {
		_, k = c.numeric.Dims()
	}
	d := mat.NewDense(n, k+1, nil)
	for i := 0; i < n; i++ {
		d.Set(i, 0, 1)
		for j := 0; j < k; j++ {
			d.Set(i, j+1, c.numeric.At(i, j))
		}
	}
	return d
}
