package temporal

import (
	"cmp"
	"fmt"
	"math"
	"time"

	"github.com/hupe1980/schemaidx/layout"
	"github.com/hupe1980/schemaidx/schema"
)

const (
	// NanosPerSecond bounds NanoOfSecond.
	NanosPerSecond = 1_000_000_000

	// LocalDateTimeKeySize is the encoded size of a LocalDateTimeKey.
	LocalDateTimeKeySize = 8 + 4 + layout.EntityIDSize
)

// LocalDateTimeKey is the scratch key of the local date time domain.
// The zero value is a valid key for 1970-01-01T00:00:00 and entity 0.
type LocalDateTimeKey struct {
	layout.Entity
	EpochSecond  int64
	NanoOfSecond int32
}

// Initialize clears the value and CompareID and sets the entity id.
func (k *LocalDateTimeKey) Initialize(entityID int64) {
	k.EpochSecond = 0
	k.NanoOfSecond = 0
	k.ResetEntity(entityID)
}

// From sets the value to the wall clock reading of t in its own location.
func (k *LocalDateTimeKey) From(t time.Time) {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	k.EpochSecond = time.Date(y, mo, d, h, mi, s, 0, time.UTC).Unix()
	k.NanoOfSecond = int32(t.Nanosecond())
}

// FromValue sets the value from its two fields.
func (k *LocalDateTimeKey) FromValue(epochSecond int64, nanoOfSecond int32) {
	k.EpochSecond = epochSecond
	k.NanoOfSecond = nanoOfSecond
}

// Time returns the wall clock reading as a UTC time.
func (k *LocalDateTimeKey) Time() time.Time {
	return time.Unix(k.EpochSecond, int64(k.NanoOfSecond)).UTC()
}

// InitAsLowest sets the lowest representable value.
func (k *LocalDateTimeKey) InitAsLowest() {
	k.EpochSecond = math.MinInt64
	k.NanoOfSecond = 0
}

// InitAsHighest sets the highest representable value.
func (k *LocalDateTimeKey) InitAsHighest() {
	k.EpochSecond = math.MaxInt64
	k.NanoOfSecond = NanosPerSecond - 1
}

// CompareValueTo orders by epoch second, then nano of second.
func (k *LocalDateTimeKey) CompareValueTo(other *LocalDateTimeKey) int {
	if c := cmp.Compare(k.EpochSecond, other.EpochSecond); c != 0 {
		return c
	}
	return cmp.Compare(k.NanoOfSecond, other.NanoOfSecond)
}

func (k *LocalDateTimeKey) String() string {
	return fmt.Sprintf("LocalDateTime[%d.%09d entity=%d compareId=%t]",
		k.EpochSecond, k.NanoOfSecond, k.EntityID(), k.CompareID())
}

var (
	// UniqueLocalDateTime is the layout of unique local date time indexes.
	UniqueLocalDateTime = newLocalDateTimeLayout("UTld", schema.Unique)

	// NonUniqueLocalDateTime is the layout of non-unique local date time indexes.
	NonUniqueLocalDateTime = newLocalDateTimeLayout("NTld", schema.NonUnique)
)

// LocalDateTimeLayoutOf selects the layout singleton for d.
func LocalDateTimeLayoutOf(d Descriptor) *LocalDateTimeLayout {
	if isUnique(d) {
		return UniqueLocalDateTime
	}
	return NonUniqueLocalDateTime
}

// LocalDateTimeLayout encodes LocalDateTimeKey as
//
//	offset 0  int64  epoch second
//	offset 8  int32  nano of second, [0, 1e9)
//	offset 12 int64  entity id
type LocalDateTimeLayout struct {
	identifier int64
	uniqueness schema.Uniqueness
	tieBreak   layout.TieBreak
}

var _ layout.Layout[*LocalDateTimeKey, *layout.NativeValue] = (*LocalDateTimeLayout)(nil)

func newLocalDateTimeLayout(name string, u schema.Uniqueness) *LocalDateTimeLayout {
	return &LocalDateTimeLayout{
		identifier: layout.MustNamedIdentifier(name, layout.NativeValueSize),
		uniqueness: u,
		tieBreak:   layout.TieBreakFor(u),
	}
}

func (l *LocalDateTimeLayout) Identifier() int64 { return l.identifier }
func (l *LocalDateTimeLayout) MajorVersion() int { return 0 }
func (l *LocalDateTimeLayout) MinorVersion() int { return 1 }

// Uniqueness reports whether this singleton serves unique indexes.
func (l *LocalDateTimeLayout) Uniqueness() schema.Uniqueness { return l.uniqueness }

func (l *LocalDateTimeLayout) NewKey() *LocalDateTimeKey { return &LocalDateTimeKey{} }

func (l *LocalDateTimeLayout) CopyKey(src, dst *LocalDateTimeKey) *LocalDateTimeKey {
	dst.EpochSecond = src.EpochSecond
	dst.NanoOfSecond = src.NanoOfSecond
	dst.CopyEntity(&src.Entity)
	return dst
}

func (l *LocalDateTimeLayout) NewValue() *layout.NativeValue { return layout.NativeValueInstance }

func (l *LocalDateTimeLayout) KeySize(*LocalDateTimeKey) int     { return LocalDateTimeKeySize }
func (l *LocalDateTimeLayout) ValueSize(*layout.NativeValue) int { return layout.NativeValueSize }
func (l *LocalDateTimeLayout) FixedSize() bool                   { return true }

func (l *LocalDateTimeLayout) WriteKey(c layout.Cursor, key *LocalDateTimeKey) error {
	if key.NanoOfSecond < 0 || key.NanoOfSecond >= NanosPerSecond {
		return fmt.Errorf("%w: nano of second %d out of range", layout.ErrInvariant, key.NanoOfSecond)
	}
	if err := layout.CheckEntityID(key.EntityID()); err != nil {
		return err
	}
	if err := layout.CheckWrite(c, LocalDateTimeKeySize); err != nil {
		return err
	}
	c.PutLong(key.EpochSecond)
	c.PutInt(key.NanoOfSecond)
	c.PutLong(key.EntityID())
	return layout.CheckBounds(c, layout.ErrCursorOverflow)
}

func (l *LocalDateTimeLayout) WriteValue(c layout.Cursor, value *layout.NativeValue) error {
	return layout.WriteNativeValue(c, value)
}

func (l *LocalDateTimeLayout) ReadKey(c layout.Cursor, into *LocalDateTimeKey, keySize int) error {
	if err := layout.CheckRead(c, keySize, LocalDateTimeKeySize); err != nil {
		return err
	}
	epochSecond := c.GetLong()
	nanoOfSecond := c.GetInt()
	entityID := c.GetLong()
	if err := layout.CheckBounds(c, layout.ErrTruncatedRead); err != nil {
		return err
	}
	if nanoOfSecond < 0 || nanoOfSecond >= NanosPerSecond {
		return fmt.Errorf("%w: nano of second %d out of range", layout.ErrInvariant, nanoOfSecond)
	}
	into.EpochSecond = epochSecond
	into.NanoOfSecond = nanoOfSecond
	into.ResetEntity(entityID)
	return nil
}

func (l *LocalDateTimeLayout) ReadValue(c layout.Cursor, into *layout.NativeValue, valueSize int) error {
	return layout.ReadNativeValue(c, into, valueSize)
}

// Compare orders by value and, for equal values, by the tie-break policy
// this singleton was built with.
func (l *LocalDateTimeLayout) Compare(a, b *LocalDateTimeKey) int {
	if c := a.CompareValueTo(b); c != 0 {
		return c
	}
	return l.tieBreak(&a.Entity, &b.Entity)
}

// String names the layout by its mnemonic.
func (l *LocalDateTimeLayout) String() string {
	name, _ := layout.IdentifierName(l.identifier)
	return "LocalDateTimeLayout(" + name + ")"
}
