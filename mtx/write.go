// SPDX-License-Identifier: MIT

package mtx

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/katalvlaran/countprep/matrix"
)

// WriteFile writes m to path, compressed according to CompressionFor(path).
func WriteFile(path string, m matrix.Matrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return Write(f, m, CompressionFor(path))
}

// Write emits m in coordinate layout. Dense input writes its nonzero entries;
// CSR input writes every stored entry, including stored zeros.
func Write(w io.Writer, m matrix.Matrix, c Compression) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return fmt.Errorf("mtx.Write: %w", err)
	}
	cw, err := compress(w, c)
	if err != nil {
		return fmt.Errorf("mtx.Write: %w", err)
	}
	bw := bufio.NewWriter(cw)

	s, ok := m.(*matrix.CSR)
	if !ok {
		s = matrix.CSRFromDense(m.ToDense())
	}
	fmt.Fprintf(bw, "%s matrix coordinate real general\n", banner)
	fmt.Fprintf(bw, "%d %d %d\n", s.Rows(), s.Cols(), s.NNZ())
	var buf []byte
	for i := 0; i < s.Rows(); i++ {
		idx, vals := s.RowRun(i)
		for k, j := range idx {
			buf = strconv.AppendInt(buf[:0], int64(i+1), 10)
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(j+1), 10)
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, vals[k], 'g', -1, 64)
			buf = append(buf, '\n')
			if _, err = bw.Write(buf); err != nil {
				return fmt.Errorf("mtx.Write: %w", err)
			}
		}
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("mtx.Write: %w", err)
	}
	if err = cw.Close(); err != nil {
		return fmt.Errorf("mtx.Write: %w", err)
	}
	return nil
}
