// SPDX-License-Identifier: MIT

//go:build purego

package matrix

var kernels = kernelSet{
	name:  "purego",
	scale: scaleGeneric,
	mul:   mulGeneric,
	sub:   subGeneric,
}

func scaleGeneric(alpha float64, dst []float64) {
	for i := range dst {
		dst[i] *= alpha
	}
}

func mulGeneric(dst, s []float64) {
	for i := range dst {
		dst[i] *= s[i]
	}
}

func subGeneric(dst, s []float64) {
	for i := range dst {
		dst[i] -= s[i]
	}
}
