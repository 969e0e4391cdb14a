package layout

import "github.com/hupe1980/schemaidx/schema"

// Cursor is a sequential reader/writer over a fixed-size page buffer.
//
// Out-of-bounds accesses do not fail immediately; they raise a sticky bounds
// flag that CheckAndClearBoundsFlag reports and clears.
type Cursor interface {
	PutLong(v int64)
	PutInt(v int32)
	PutShort(v int16)
	PutByte(v byte)
	PutBytes(p []byte)

	GetLong() int64
	GetInt() int32
	GetShort() int16
	GetByte() byte
	GetBytes(dst []byte)

	Offset() int
	SetOffset(off int)
	Remaining() int

	CheckAndClearBoundsFlag() bool
}

// Layout is the codec, comparator and identity of one (Key, Value) pair.
//
// K and V are expected to be pointer types so that ReadKey/ReadValue and
// CopyKey can populate them in place.
type Layout[K any, V any] interface {
	// Identifier is the persisted tag of this layout. It never changes once a
	// format ships.
	Identifier() int64
	MajorVersion() int
	MinorVersion() int

	NewKey() K
	// CopyKey deep-copies src into dst, including entity id and CompareID,
	// and returns dst.
	CopyKey(src, dst K) K
	NewValue() V

	KeySize(key K) int
	ValueSize(value V) int
	// FixedSize reports whether every entry of this layout occupies the same
	// number of bytes.
	FixedSize() bool

	WriteKey(c Cursor, key K) error
	WriteValue(c Cursor, value V) error
	ReadKey(c Cursor, into K, keySize int) error
	ReadValue(c Cursor, into V, valueSize int) error

	Compare(a, b K) int
}

// UniquenessReporter is implemented by layouts that know whether they serve
// a unique index.
type UniquenessReporter interface {
	Uniqueness() schema.Uniqueness
}

// Key is the entity part every Schema Key embeds. Range helpers use it to
// install boundary sentinels.
type Key interface {
	EntityID() int64
	SetEntityID(id int64)
	CompareID() bool
	SetCompareID(compareID bool)
}
