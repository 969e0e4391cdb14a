// Package segment persists a sorted run of schema index entries as one
// immutable blob.
//
// A segment starts with a 64-byte little-endian header:
//
//	Magic "SIDX"      [4]byte
//	ContainerVersion  uint32
//	LayoutIdentifier  int64
//	LayoutMajor       uint16
//	LayoutMinor       uint16
//	Flags             uint32   (bit 0: fixed-size entries)
//	KeySize           uint32   (0 when variable)
//	ValueSize         uint32   (0 when variable)
//	EntryCount        uint64
//	PageSize          uint32
//	PageCount         uint32
//	Codec             uint8
//	_                 [3]byte
//	PayloadLength     uint32
//	Checksum          uint32   (CRC32 of the payload)
//	_                 [4]byte
//
// The payload is PageCount codec blocks. A decoded page holds a 4-byte entry
// count followed by its entries. Fixed-size layouts store entries at a flat
// stride of KeySize+ValueSize; variable layouts prefix every entry with a
// 2-byte key size and a 2-byte value size. Entries never span pages.
//
// Open validates the header against the runtime layout before any key is
// decoded, so a format change is reported as *layout.FormatMismatchError
// instead of as garbage keys.
package segment
