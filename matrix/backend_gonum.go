// SPDX-License-Identifier: MIT

//go:build !purego

package matrix

import "gonum.org/v1/gonum/floats"

var kernels = kernelSet{
	name:  "gonum",
	scale: floats.Scale,
	mul:   floats.Mul,
	sub:   floats.Sub,
}
