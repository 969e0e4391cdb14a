// Package codec centralizes block compression for persisted segments.
//
// Codec selection is a format boundary: a segment records the codec id in
// its header and is decoded with the codec it was written with, so changing
// the default never breaks existing blobs.
//
// Block format:
//
//	UncompressedSize uint32
//	CompressedSize   uint32   (0 = stored raw)
//	Data             []byte
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Type identifies a block codec. The numeric value is persisted.
type Type uint8

const (
	// None stores blocks raw.
	None Type = 0
	// LZ4 is fast block compression, good for hot data.
	LZ4 Type = 1
	// ZSTD trades speed for ratio, good for cold data.
	ZSTD Type = 2
)

// BlockHeaderSize is the size of the per-block header.
const BlockHeaderSize = 8

// MaxBlockSize bounds the uncompressed size of one block.
const MaxBlockSize = 64 << 20

// Default is the codec used when none is configured.
var Default = LZ4

var (
	// ErrUnknownCodec is returned for codec ids or names this build does not know.
	ErrUnknownCodec = errors.New("codec: unknown codec")

	// ErrCorruptBlock is returned when a block header disagrees with its data.
	ErrCorruptBlock = errors.New("codec: corrupt block")

	// ErrBlockTooLarge is returned by Compress for inputs above MaxBlockSize.
	ErrBlockTooLarge = errors.New("codec: block too large")
)

// String returns the stable name of t.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", uint8(t))
	}
}

// Valid reports whether t is a known codec.
func (t Type) Valid() bool {
	return t <= ZSTD
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Type, bool) {
	switch name {
	case "none":
		return None, true
	case "lz4":
		return LZ4, true
	case "zstd":
		return ZSTD, true
	default:
		return None, false
	}
}

// Compress encodes data as one block. Blocks that do not shrink below 90%
// of their input are stored raw.
func (t Type) Compress(data []byte) ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, uint8(t))
	}
	if len(data) > MaxBlockSize {
		return nil, fmt.Errorf("%w: %d bytes exceed the block limit", ErrBlockTooLarge, len(data))
	}

	var compressed []byte
	var err error

	switch t {
	case LZ4:
		compressed, err = compressLZ4(data)
	case ZSTD:
		compressed = compressZSTD(data)
	}
	if err != nil {
		return nil, err
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		return appendBlock(data, uint32(len(data)), 0), nil
	}
	return appendBlock(compressed, uint32(len(data)), uint32(len(compressed))), nil
}

func appendBlock(payload []byte, uncompressed, compressed uint32) []byte {
	out := make([]byte, BlockHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(out[0:], uncompressed)
	binary.LittleEndian.PutUint32(out[4:], compressed)
	copy(out[BlockHeaderSize:], payload)
	return out
}

// BlockLen returns the total encoded length of the block starting at data.
func BlockLen(data []byte) (int, error) {
	if len(data) < BlockHeaderSize {
		return 0, fmt.Errorf("%w: block too small for header", ErrCorruptBlock)
	}
	uncompressedSize := int(binary.LittleEndian.Uint32(data[0:]))
	if uncompressedSize > MaxBlockSize {
		return 0, fmt.Errorf("%w: block declares %d bytes", ErrCorruptBlock, uncompressedSize)
	}
	if size := int(binary.LittleEndian.Uint32(data[4:])); size != 0 {
		return BlockHeaderSize + size, nil
	}
	return BlockHeaderSize + uncompressedSize, nil
}

// Decompress decodes one block produced by Compress with the same codec.
func (t Type) Decompress(block []byte) ([]byte, error) {
	if len(block) < BlockHeaderSize {
		return nil, fmt.Errorf("%w: block too small for header", ErrCorruptBlock)
	}

	uncompressedSize := int(binary.LittleEndian.Uint32(block[0:]))
	compressedSize := int(binary.LittleEndian.Uint32(block[4:]))
	if uncompressedSize > MaxBlockSize {
		return nil, fmt.Errorf("%w: block declares %d bytes", ErrCorruptBlock, uncompressedSize)
	}

	if compressedSize == 0 {
		if len(block)-BlockHeaderSize < uncompressedSize {
			return nil, fmt.Errorf("%w: stored block truncated", ErrCorruptBlock)
		}
		return block[BlockHeaderSize : BlockHeaderSize+uncompressedSize], nil
	}

	if len(block)-BlockHeaderSize < compressedSize {
		return nil, fmt.Errorf("%w: compressed block truncated", ErrCorruptBlock)
	}
	data := block[BlockHeaderSize : BlockHeaderSize+compressedSize]

	var out []byte
	var err error
	switch t {
	case LZ4:
		out, err = decompressLZ4(data, uncompressedSize)
	case ZSTD:
		out, err = decompressZSTD(data, uncompressedSize)
	case None:
		return nil, fmt.Errorf("%w: compressed block under codec none", ErrCorruptBlock)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, uint8(t))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptBlock, t, err)
	}
	if len(out) != uncompressedSize {
		return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptBlock)
	}
	return out, nil
}
