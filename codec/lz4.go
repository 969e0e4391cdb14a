package codec

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

func compressLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}
	return compressed[:n], nil
}

func decompressLZ4(data []byte, size int) ([]byte, error) {
	if size < 0 || size > MaxBlockSize {
		return nil, fmt.Errorf("uncompressed size %d out of range", size)
	}
	out := make([]byte, size)
	n, err := lz4.UncompressBlock(data, out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}
