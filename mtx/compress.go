// SPDX-License-Identifier: MIT

package mtx

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression names a stream codec.
type Compression uint8

const (
	// None is an uncompressed stream.
	None Compression = iota
	// Gzip is RFC 1952.
	Gzip
	// Zstd is Zstandard.
	Zstd
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// String returns the codec name.
func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

// CompressionFor maps a file name to the codec its extension implies.
func CompressionFor(name string) Compression {
	switch filepath.Ext(name) {
	case ".gz":
		return Gzip
	case ".zst":
		return Zstd
	default:
		return None
	}
}

// decompress sniffs the first bytes of r and wraps it in the matching decoder.
// The returned close function releases the decoder, not r.
func decompress(r io.Reader) (io.Reader, func() error, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, nil, err
	}
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() error { zr.Close(); return nil }, nil
	default:
		return br, func() error { return nil }, nil
	}
}

// compress wraps w in the encoder for c. Closing the result flushes the
// encoder but does not close w.
func compress(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w)
	default:
		return nopCloser{w}, nil
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
