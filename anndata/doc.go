// Package anndata is an in-memory annotated count matrix: a primary matrix X
// (observations × variables), named alternate layers of the same shape,
// per-observation and per-variable annotation columns, per-observation
// embeddings (obsm), and an unstructured key-value store (uns).
//
// Subsetting keeps every component aligned: SubsetObs trims X, every layer,
// every obs column and every obsm entry; SubsetVars trims X, every layer and
// every var column. Selections are carried as roaring bitmaps.
package anndata
