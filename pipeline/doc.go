// Package pipeline loads a preprocessing recipe from YAML and runs it against
// a dataset.
//
// A recipe is a list of steps, each naming exactly one operation:
//
//	seed: 0
//	parallelism: 4
//	steps:
//	  - filter_cells: {min_counts: 200}
//	  - filter_genes: {min_nonzero: 3}
//	  - normalize_per_cell: {target_total: 10000}
//	  - log1p: {}
//	  - regress_out: {keys: [n_counts]}
//	  - scale: {clip_max: 10}
//	  - pca: {n_comps: 50}
//
// Top-level keys can be overridden from the environment with the COUNTPREP_
// prefix (COUNTPREP_SEED, COUNTPREP_PARALLELISM, COUNTPREP_CHUNK_SIZE).
package pipeline
