// SPDX-License-Identifier: MIT

package mtx

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/countprep/matrix"
)

var (
	// ErrFormat is returned for malformed Matrix Market input.
	ErrFormat = errors.New("mtx: malformed input")

	// ErrUnsupported is returned for valid headers this package does not read
	// (complex fields, symmetric storage, non-matrix objects).
	ErrUnsupported = errors.New("mtx: unsupported matrix market variant")
)

const banner = "%%MatrixMarket"

// maxPrealloc bounds the capacity reserved from a size line before any entry
// has been read.
const maxPrealloc = 1 << 16

type header struct {
	coordinate bool
	pattern    bool
}

// ReadFile opens path and calls Read.
func ReadFile(path string) (matrix.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Read parses one Matrix Market matrix from r.
func Read(r io.Reader) (matrix.Matrix, error) {
	src, closeFn, err := decompress(r)
	if err != nil {
		return nil, fmt.Errorf("mtx.Read: %w", err)
	}
	defer closeFn()

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	line := 0
	next := func() (string, bool) {
		for sc.Scan() {
			line++
			t := strings.TrimSpace(sc.Text())
			if t == "" || strings.HasPrefix(t, "%") {
				continue
			}
			return t, true
		}
		return "", false
	}

	if !sc.Scan() {
		return nil, fmt.Errorf("mtx.Read: empty input: %w", ErrFormat)
	}
	line++
	h, err := parseHeader(sc.Text())
	if err != nil {
		return nil, fmt.Errorf("mtx.Read: %w", err)
	}
	sizeLine, ok := next()
	if !ok {
		return nil, fmt.Errorf("mtx.Read: missing size line: %w", ErrFormat)
	}
	if h.coordinate {
		m, err := readCoordinate(sizeLine, h, next, &line)
		if err == nil {
			err = sc.Err()
		}
		return m, wrapRead(err)
	}
	m, err := readArray(sizeLine, next, &line)
	if err == nil {
		err = sc.Err()
	}
	return m, wrapRead(err)
}

func wrapRead(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("mtx.Read: %w", err)
}

func parseHeader(s string) (header, error) {
	f := strings.Fields(strings.ToLower(s))
	if len(f) != 5 || f[0] != strings.ToLower(banner) {
		return header{}, fmt.Errorf("header %q: %w", s, ErrFormat)
	}
	if f[1] != "matrix" {
		return header{}, fmt.Errorf("object %q: %w", f[1], ErrUnsupported)
	}
	var h header
	switch f[2] {
	case "coordinate":
		h.coordinate = true
	case "array":
	default:
		return header{}, fmt.Errorf("format %q: %w", f[2], ErrFormat)
	}
	switch f[3] {
	case "real", "integer", "double":
	case "pattern":
		if !h.coordinate {
			return header{}, fmt.Errorf("pattern array: %w", ErrFormat)
		}
		h.pattern = true
	default:
		return header{}, fmt.Errorf("field %q: %w", f[3], ErrUnsupported)
	}
	if f[4] != "general" {
		return header{}, fmt.Errorf("symmetry %q: %w", f[4], ErrUnsupported)
	}
	return h, nil
}

func parseInts(s string, n int) ([]int, error) {
	f := strings.Fields(s)
	if len(f) != n {
		return nil, fmt.Errorf("want %d integers in %q: %w", n, s, ErrFormat)
	}
	out := make([]int, n)
	for k, v := range f {
		x, err := strconv.Atoi(v)
		if err != nil || x < 0 {
			return nil, fmt.Errorf("integer %q: %w", v, ErrFormat)
		}
		out[k] = x
	}
	return out, nil
}

func readCoordinate(sizeLine string, h header, next func() (string, bool), line *int) (matrix.Matrix, error) {
	size, err := parseInts(sizeLine, 3)
	if err != nil {
		return nil, err
	}
	rows, cols, nnz := size[0], size[1], size[2]
	// The header count is not trusted for allocation; entries grow the slices.
	hint := min(nnz, maxPrealloc)
	ri := make([]int, 0, hint)
	ci := make([]int, 0, hint)
	vals := make([]float64, 0, hint)
	want := 3
	if h.pattern {
		want = 2
	}
	for k := 0; k < nnz; k++ {
		s, ok := next()
		if !ok {
			return nil, fmt.Errorf("%d of %d entries: %w", k, nnz, ErrFormat)
		}
		f := strings.Fields(s)
		if len(f) != want {
			return nil, fmt.Errorf("line %d: %w", *line, ErrFormat)
		}
		i, err1 := strconv.Atoi(f[0])
		j, err2 := strconv.Atoi(f[1])
		if err1 != nil || err2 != nil || i < 1 || i > rows || j < 1 || j > cols {
			return nil, fmt.Errorf("line %d: index out of range: %w", *line, ErrFormat)
		}
		v := 1.0
		if !h.pattern {
			if v, err = strconv.ParseFloat(f[2], 64); err != nil {
				return nil, fmt.Errorf("line %d: value %q: %w", *line, f[2], ErrFormat)
			}
		}
		ri, ci, vals = append(ri, i-1), append(ci, j-1), append(vals, v)
	}
	if _, extra := next(); extra {
		return nil, fmt.Errorf("line %d: more than %d entries: %w", *line, nnz, ErrFormat)
	}

	return cooToCSR(rows, cols, ri, ci, vals)
}

// cooToCSR buckets entries by row with a counting sort. Column order within a
// row follows first appearance in the file; repeated (i,j) entries are summed
// into one stored value.
func cooToCSR(rows, cols int, ri, ci []int, vals []float64) (*matrix.CSR, error) {
	start := make([]int, rows+1)
	for _, i := range ri {
		start[i+1]++
	}
	for i := 0; i < rows; i++ {
		start[i+1] += start[i]
	}
	pos := make([]int, rows)
	copy(pos, start[:rows])
	bucketCols := make([]int, len(ri))
	bucketVals := make([]float64, len(ri))
	for k, i := range ri {
		p := pos[i]
		bucketCols[p], bucketVals[p] = ci[k], vals[k]
		pos[i]++
	}

	// slot[j] is 1 + the output position of column j in the current row.
	slot := make([]int, cols)
	indptr := make([]int, rows+1)
	indices := make([]int, 0, len(ri))
	data := make([]float64, 0, len(ri))
	for i := 0; i < rows; i++ {
		rowStart := len(indices)
		for k := start[i]; k < start[i+1]; k++ {
			j := bucketCols[k]
			if p := slot[j] - 1; p >= rowStart {
				data[p] += bucketVals[k]
				continue
			}
			slot[j] = len(indices) + 1
			indices = append(indices, j)
			data = append(data, bucketVals[k])
		}
		indptr[i+1] = len(indices)
	}

	return matrix.NewCSR(rows, cols, indptr, indices, data)
}

// readArray reads the column-major dense layout.
func readArray(sizeLine string, next func() (string, bool), line *int) (matrix.Matrix, error) {
	size, err := parseInts(sizeLine, 2)
	if err != nil {
		return nil, err
	}
	rows, cols := size[0], size[1]
	n := rows * cols
	colMajor := make([]float64, 0, min(n, maxPrealloc))
	for k := 0; k < n; k++ {
		s, ok := next()
		if !ok {
			return nil, fmt.Errorf("%d of %d values: %w", k, n, ErrFormat)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: value %q: %w", *line, s, ErrFormat)
		}
		colMajor = append(colMajor, v)
	}
	data := make([]float64, n)
	for k, v := range colMajor {
		i, j := k%rows, k/rows
		data[i*cols+j] = v
	}

	return matrix.NewDenseFrom(rows, cols, data)
}
