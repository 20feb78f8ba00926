// Package codec compresses encoded replay documents for storage and transfer.
package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	encOnce sync.Once
	encoder *zstd.Encoder
	encErr  error

	decOnce sync.Once
	decoder *zstd.Decoder
	decErr  error
)

// Compress zstd-compresses an encoded document.
func Compress(data []byte) ([]byte, error) {
	encOnce.Do(func() {
		encoder, encErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
	if encErr != nil {
		return nil, fmt.Errorf("zstd encoder: %w", encErr)
	}
	return encoder.EncodeAll(data, make([]byte, 0, len(data)/8)), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	decOnce.Do(func() {
		decoder, decErr = zstd.NewReader(nil)
	})
	if decErr != nil {
		return nil, fmt.Errorf("zstd decoder: %w", decErr)
	}
	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress replay: %w", err)
	}
	return out, nil
}
