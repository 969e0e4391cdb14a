package codec

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, typ := range []Type{None, LZ4, ZSTD} {
		got, ok := ByName(typ.String())
		require.True(t, ok)
		assert.Equal(t, typ, got)
		assert.True(t, typ.Valid())
	}
	_, ok := ByName("snappy")
	assert.False(t, ok)
	assert.False(t, Type(7).Valid())
	assert.Equal(t, "codec(7)", Type(7).String())
}

func TestRoundTrip(t *testing.T) {
	compressible := bytes.Repeat([]byte("2024-02-29T13:14:15 entity "), 400)
	random := make([]byte, 4096)
	rand.New(rand.NewSource(1)).Read(random)

	for _, typ := range []Type{None, LZ4, ZSTD} {
		for name, data := range map[string][]byte{"compressible": compressible, "random": random, "empty": {}} {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				block, err := typ.Compress(data)
				require.NoError(t, err)

				n, err := BlockLen(block)
				require.NoError(t, err)
				assert.Equal(t, len(block), n)

				out, err := typ.Decompress(block)
				require.NoError(t, err)
				assert.Equal(t, len(data), len(out))
				assert.True(t, bytes.Equal(data, out))
			})
		}
	}
}

func TestCompressShrinks(t *testing.T) {
	data := bytes.Repeat([]byte{0}, 8192)
	for _, typ := range []Type{LZ4, ZSTD} {
		block, err := typ.Compress(data)
		require.NoError(t, err)
		assert.Less(t, len(block), len(data)/4, typ.String())
	}
	block, err := None.Compress(data)
	require.NoError(t, err)
	assert.Equal(t, len(data)+BlockHeaderSize, len(block))
}

func TestDecompressCorrupt(t *testing.T) {
	_, err := LZ4.Decompress([]byte{1, 2})
	assert.ErrorIs(t, err, ErrCorruptBlock)

	block, err := ZSTD.Compress(bytes.Repeat([]byte("abc"), 1000))
	require.NoError(t, err)
	_, err = ZSTD.Decompress(block[:len(block)-1])
	assert.ErrorIs(t, err, ErrCorruptBlock)

	_, err = Type(9).Compress([]byte("x"))
	assert.ErrorIs(t, err, ErrUnknownCodec)
}

func header(uncompressed, compressed uint32, payload int) []byte {
	block := make([]byte, BlockHeaderSize+payload)
	binary.LittleEndian.PutUint32(block[0:], uncompressed)
	binary.LittleEndian.PutUint32(block[4:], compressed)
	return block
}

func TestDecompressHeaderBounds(t *testing.T) {
	tests := []struct {
		name  string
		typ   Type
		block []byte
	}{
		{"stored size wraps", None, header(0xFFFFFFFF, 0, 7)},
		{"compressed size wraps", LZ4, header(16, 0xFFFFFFFF, 7)},
		{"stored truncated", None, header(32, 0, 31)},
		{"compressed truncated", ZSTD, header(64, 20, 19)},
		{"oversized lz4", LZ4, header(MaxBlockSize+1, 4, 4)},
		{"oversized zstd", ZSTD, header(0xFFFFFFF0, 4, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = tt.typ.Decompress(tt.block)
			})
			assert.ErrorIs(t, err, ErrCorruptBlock)
		})
	}
}

func TestCompressTooLarge(t *testing.T) {
	_, err := None.Compress(make([]byte, MaxBlockSize+1))
	assert.ErrorIs(t, err, ErrBlockTooLarge)
}

func TestBlockLenOversized(t *testing.T) {
	_, err := BlockLen(header(0xFFFFFFFF, 0, 0))
	assert.ErrorIs(t, err, ErrCorruptBlock)

	n, err := BlockLen(header(10, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, BlockHeaderSize+4, n)
}
