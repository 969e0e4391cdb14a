package segment

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/schemaidx/codec"
)

const (
	// HeaderSize is the encoded size of Header.
	HeaderSize = 64

	// ContainerVersion is the current segment container version.
	ContainerVersion = 1

	// FlagFixedSize marks segments whose entries all have the same size.
	FlagFixedSize uint32 = 1 << 0

	// DefaultPageSize is the page size used when none is configured.
	DefaultPageSize = 8 * 1024

	// MinPageSize is the smallest accepted page size.
	MinPageSize = 256

	// MaxPageSize is the largest accepted page size. Variable entries encode
	// their sizes in 16 bits.
	MaxPageSize = 64 * 1024

	pageHeaderSize  = 4
	entryHeaderSize = 4
)

// Magic identifies segment blobs.
var Magic = [4]byte{'S', 'I', 'D', 'X'}

var (
	ErrInvalidMagic   = errors.New("segment: invalid magic")
	ErrInvalidVersion = errors.New("segment: unsupported container version")
	ErrCorrupt        = errors.New("segment: corrupt")
	ErrOutOfOrder     = errors.New("segment: keys out of order")
	ErrDuplicateKey   = errors.New("segment: duplicate key")
	ErrClosed         = errors.New("segment: writer closed")
	ErrInvalidOption  = errors.New("segment: invalid option")
)

// ChecksumMismatchError reports a payload whose CRC32 differs from the header.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("segment: checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrCorrupt) hold.
func (e *ChecksumMismatchError) Is(target error) bool { return target == ErrCorrupt }

// Header is the decoded segment header.
type Header struct {
	Magic            [4]byte
	ContainerVersion uint32
	LayoutIdentifier int64
	LayoutMajor      uint16
	LayoutMinor      uint16
	Flags            uint32
	KeySize          uint32
	ValueSize        uint32
	EntryCount       uint64
	PageSize         uint32
	PageCount        uint32
	Codec            codec.Type
	PayloadLength    uint32
	Checksum         uint32

	// NewerMinor is set by Open when the segment was written by a newer
	// minor revision of the layout. It is not persisted.
	NewerMinor bool
}

// FixedSize reports whether the fixed-size flag is set.
func (h *Header) FixedSize() bool { return h.Flags&FlagFixedSize != 0 }

// MarshalBinary encodes the header into HeaderSize bytes.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	le := binary.LittleEndian

	copy(buf[0:4], h.Magic[:])
	le.PutUint32(buf[4:], h.ContainerVersion)
	le.PutUint64(buf[8:], uint64(h.LayoutIdentifier))
	le.PutUint16(buf[16:], h.LayoutMajor)
	le.PutUint16(buf[18:], h.LayoutMinor)
	le.PutUint32(buf[20:], h.Flags)
	le.PutUint32(buf[24:], h.KeySize)
	le.PutUint32(buf[28:], h.ValueSize)
	le.PutUint64(buf[32:], h.EntryCount)
	le.PutUint32(buf[40:], h.PageSize)
	le.PutUint32(buf[44:], h.PageCount)
	buf[48] = byte(h.Codec)
	le.PutUint32(buf[52:], h.PayloadLength)
	le.PutUint32(buf[56:], h.Checksum)

	return buf, nil
}

// UnmarshalBinary decodes and validates the container fields of a header.
// Layout fields are checked by Open.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: header is %d bytes, want %d", ErrCorrupt, len(data), HeaderSize)
	}
	le := binary.LittleEndian

	copy(h.Magic[:], data[0:4])
	if h.Magic != Magic {
		return fmt.Errorf("%w: %q", ErrInvalidMagic, h.Magic[:])
	}

	h.ContainerVersion = le.Uint32(data[4:])
	if h.ContainerVersion != ContainerVersion {
		return fmt.Errorf("%w: %d", ErrInvalidVersion, h.ContainerVersion)
	}

	h.LayoutIdentifier = int64(le.Uint64(data[8:]))
	h.LayoutMajor = le.Uint16(data[16:])
	h.LayoutMinor = le.Uint16(data[18:])
	h.Flags = le.Uint32(data[20:])
	h.KeySize = le.Uint32(data[24:])
	h.ValueSize = le.Uint32(data[28:])
	h.EntryCount = le.Uint64(data[32:])
	h.PageSize = le.Uint32(data[40:])
	h.PageCount = le.Uint32(data[44:])
	h.Codec = codec.Type(data[48])
	h.PayloadLength = le.Uint32(data[52:])
	h.Checksum = le.Uint32(data[56:])

	if !h.Codec.Valid() {
		return fmt.Errorf("%w: %d", codec.ErrUnknownCodec, uint8(h.Codec))
	}
	if h.PageSize < MinPageSize || h.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page size %d", ErrCorrupt, h.PageSize)
	}
	return nil
}
