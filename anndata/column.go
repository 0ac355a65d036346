// SPDX-License-Identifier: MIT

package anndata

import (
	"fmt"
	"slices"
)

// Column is one annotation column aligned to an axis.
type Column interface {
	Len() int
	// Take returns a new column holding the entries at idx, in order.
	Take(idx []int) Column
}

// Numeric is a float annotation column (counts, totals, scores).
type Numeric []float64

// Len returns the number of entries.
func (c Numeric) Len() int { return len(c) }

// Take returns the entries at idx.
func (c Numeric) Take(idx []int) Column {
	out := make(Numeric, len(idx))
	for k, i := range idx {
		out[k] = c[i]
	}
	return out
}

// Strings is a free-text annotation column (names, barcodes).
type Strings []string

// Len returns the number of entries.
func (c Strings) Len() int { return len(c) }

// Take returns the entries at idx.
func (c Strings) Take(idx []int) Column {
	out := make(Strings, len(idx))
	for k, i := range idx {
		out[k] = c[i]
	}
	return out
}

// Categorical stores group labels as codes into Categories.
type Categorical struct {
	Codes      []int    // Codes[i] indexes Categories
	Categories []string // distinct labels
}

// NewCategorical encodes values against their sorted distinct labels.
func NewCategorical(values []string) *Categorical {
	cats := slices.Clone(values)
	slices.Sort(cats)
	cats = slices.Compact(cats)
	codes := make([]int, len(values))
	for i, v := range values {
		codes[i], _ = slices.BinarySearch(cats, v)
	}
	return &Categorical{Codes: codes, Categories: cats}
}

// Len returns the number of entries.
func (c *Categorical) Len() int { return len(c.Codes) }

// Take returns the entries at idx. Categories are kept even if unused.
func (c *Categorical) Take(idx []int) Column {
	codes := make([]int, len(idx))
	for k, i := range idx {
		codes[k] = c.Codes[i]
	}
	return &Categorical{Codes: codes, Categories: slices.Clone(c.Categories)}
}

// Validate checks every code indexes Categories.
func (c *Categorical) Validate() error {
	for i, code := range c.Codes {
		if code < 0 || code >= len(c.Categories) {
			return fmt.Errorf("anndata: categorical entry %d code %d outside [0,%d): %w",
				i, code, len(c.Categories), ErrInvalidColumn)
		}
	}
	return nil
}

func cloneColumn(c Column) Column {
	switch t := c.(type) {
	case Numeric:
		return slices.Clone(t)
	case Strings:
		return slices.Clone(t)
	case *Categorical:
		return &Categorical{Codes: slices.Clone(t.Codes), Categories: slices.Clone(t.Categories)}
	default:
		idx := make([]int, c.Len())
		for i := range idx {
			idx[i] = i
		}
		return c.Take(idx)
	}
}
