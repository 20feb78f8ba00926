package demo

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedSuffix marks demos stored zstd-compressed.
const CompressedSuffix = ".zst"

// Open opens a demo file, transparently decompressing it when the name ends in ".zst".
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open demo: %w", err)
	}
	rc, err := NewReader(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rc, nil
}

// NewReader wraps a demo stream named name. Closing the result closes src.
func NewReader(src io.ReadCloser, name string) (io.ReadCloser, error) {
	if !strings.HasSuffix(name, CompressedSuffix) {
		return src, nil
	}

	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("open zstd demo: %w", err)
	}
	return &zstdStream{dec: dec, src: src}, nil
}

type zstdStream struct {
	dec *zstd.Decoder
	src io.Closer
}

func (z *zstdStream) Read(p []byte) (int, error) {
	return z.dec.Read(p)
}

func (z *zstdStream) Close() error {
	z.dec.Close()
	return z.src.Close()
}
