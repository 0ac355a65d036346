// SPDX-License-Identifier: MIT

// Command countprep runs a preprocessing recipe over a Matrix Market count
// matrix and writes the result back in Matrix Market form.
//
//	countprep run --config recipe.yaml --input counts.mtx.gz --output out.mtx.gz
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
