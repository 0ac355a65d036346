// Package countprep is a batch preprocessing engine for large observations ×
// features count matrices, such as per-cell gene counts.
//
// 🚀 What is countprep?
//
//	One set of transforms that gives the same numbers on every representation:
//		• Dense row-major matrices and CSR sparse matrices
//		• Row-chunked passes over either, sharing storage with the parent
//		• An annotated dataset carrying per-row / per-column metadata
//
// ✨ Why choose countprep?
//
//   - Sparse stays sparse: nothing densifies implicitly; the few steps that
//     need dense input (zero-centering, regression, PCA) say so and log it
//   - Reproducible: every random step takes a seed; row i of a matrix always
//     draws from the same stream, dense or sparse
//   - Graceful degradation: rank-deficient regression columns become zeros
//     with a warning, a busy worker budget falls back to sequential work
//
// Packages, leaves first:
//
//	matrix/     - Dense, CSR, the Matrix capability interface, chunks, masks
//	filter/     - per-row / per-column thresholds → keep masks
//	normalize/  - per-row total normalization
//	scale/      - column standardization with optional clipping
//	regress/    - per-column OLS residuals, parallel over column chunks
//	workpool/   - bounded worker pool with a process-wide budget
//	downsample/ - seeded count resampling to a target total
//	subsample/  - seeded uniform row subsets
//	anndata/    - the in-memory annotated dataset
//	pp/         - dataset-level bindings of every step
//	mtx/        - Matrix Market IO (plain, gzip, zstd)
//	pipeline/   - YAML recipes (viper + validator) run against a dataset
//
// Quick tour:
//
//	x, _ := mtx.ReadFile("counts.mtx.gz")
//	ds, _ := anndata.New(x)
//	_, _ = pp.FilterCells(ds, filter.Criteria{MinCounts: filter.Threshold(200)})
//	_, _ = pp.NormalizePerCell(ds, pp.NormalizeConfig{TargetTotal: 1e4})
//	_, _ = pp.Log1p(ds, 0)
//
// The countprep command (cmd/countprep) runs a recipe end to end:
//
//	countprep run --config recipe.yaml --input counts.mtx.gz --output out.mtx.gz
package countprep
