// Package pp binds the matrix transforms to an annotated dataset.
//
// Every function takes a Dataset and functional options. WithCopy(true) runs
// on ds.Copy() and returns the copy; otherwise ds is modified in place and the
// returned dataset is nil. Per-row and per-column statistics a step computes
// (totals, detected counts) are written back as annotation columns before the
// dataset is subset, so they survive on the kept entries.
//
// Annotation keys written:
//
//	FilterCells       obs "n_counts" | "n_genes"
//	FilterGenes       var "n_counts" | "n_cells"
//	NormalizePerCell  obs KeyNCounts (default "n_counts"), uns "normalize_per_cell"
//	PCA               obsm "X_pca", uns "pca"
package pp
