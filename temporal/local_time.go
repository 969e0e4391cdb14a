package temporal

import (
	"cmp"
	"fmt"
	"time"

	"github.com/hupe1980/schemaidx/layout"
	"github.com/hupe1980/schemaidx/schema"
)

const (
	// NanosPerDay bounds NanoOfDay.
	NanosPerDay = int64(secondsPerDay) * NanosPerSecond

	// LocalTimeKeySize is the encoded size of a LocalTimeKey.
	LocalTimeKeySize = 8 + layout.EntityIDSize
)

// LocalTimeKey is the scratch key of the local time domain: nanoseconds
// since midnight.
type LocalTimeKey struct {
	layout.Entity
	NanoOfDay int64
}

// Initialize clears the value and CompareID and sets the entity id.
func (k *LocalTimeKey) Initialize(entityID int64) {
	k.NanoOfDay = 0
	k.ResetEntity(entityID)
}

// From sets the value to the wall clock time of t.
func (k *LocalTimeKey) From(t time.Time) {
	h, m, s := t.Clock()
	k.NanoOfDay = (int64(h)*3600+int64(m)*60+int64(s))*NanosPerSecond + int64(t.Nanosecond())
}

// Duration returns the offset since midnight.
func (k *LocalTimeKey) Duration() time.Duration { return time.Duration(k.NanoOfDay) }

func (k *LocalTimeKey) InitAsLowest()  { k.NanoOfDay = 0 }
func (k *LocalTimeKey) InitAsHighest() { k.NanoOfDay = NanosPerDay - 1 }

// CompareValueTo orders by nano of day.
func (k *LocalTimeKey) CompareValueTo(other *LocalTimeKey) int {
	return cmp.Compare(k.NanoOfDay, other.NanoOfDay)
}

func (k *LocalTimeKey) String() string {
	return fmt.Sprintf("LocalTime[%d entity=%d compareId=%t]", k.NanoOfDay, k.EntityID(), k.CompareID())
}

var (
	// UniqueLocalTime is the layout of unique local time indexes.
	UniqueLocalTime = newLocalTimeLayout("UTlt", schema.Unique)

	// NonUniqueLocalTime is the layout of non-unique local time indexes.
	NonUniqueLocalTime = newLocalTimeLayout("NTlt", schema.NonUnique)
)

// LocalTimeLayoutOf selects the local time layout singleton for d.
func LocalTimeLayoutOf(d Descriptor) *LocalTimeLayout {
	if isUnique(d) {
		return UniqueLocalTime
	}
	return NonUniqueLocalTime
}

// LocalTimeLayout encodes LocalTimeKey as nano of day followed by entity id.
type LocalTimeLayout struct {
	identifier int64
	uniqueness schema.Uniqueness
	tieBreak   layout.TieBreak
}

var _ layout.Layout[*LocalTimeKey, *layout.NativeValue] = (*LocalTimeLayout)(nil)

func newLocalTimeLayout(name string, u schema.Uniqueness) *LocalTimeLayout {
	return &LocalTimeLayout{
		identifier: layout.MustNamedIdentifier(name, layout.NativeValueSize),
		uniqueness: u,
		tieBreak:   layout.TieBreakFor(u),
	}
}

func (l *LocalTimeLayout) Identifier() int64 { return l.identifier }
func (l *LocalTimeLayout) MajorVersion() int { return 0 }
func (l *LocalTimeLayout) MinorVersion() int { return 1 }

// Uniqueness reports whether this singleton serves unique indexes.
func (l *LocalTimeLayout) Uniqueness() schema.Uniqueness { return l.uniqueness }

func (l *LocalTimeLayout) NewKey() *LocalTimeKey { return &LocalTimeKey{} }

func (l *LocalTimeLayout) CopyKey(src, dst *LocalTimeKey) *LocalTimeKey {
	dst.NanoOfDay = src.NanoOfDay
	dst.CopyEntity(&src.Entity)
	return dst
}

func (l *LocalTimeLayout) NewValue() *layout.NativeValue { return layout.NativeValueInstance }

func (l *LocalTimeLayout) KeySize(*LocalTimeKey) int         { return LocalTimeKeySize }
func (l *LocalTimeLayout) ValueSize(*layout.NativeValue) int { return layout.NativeValueSize }
func (l *LocalTimeLayout) FixedSize() bool                   { return true }

func (l *LocalTimeLayout) WriteKey(c layout.Cursor, key *LocalTimeKey) error {
	if key.NanoOfDay < 0 || key.NanoOfDay >= NanosPerDay {
		return fmt.Errorf("%w: nano of day %d out of range", layout.ErrInvariant, key.NanoOfDay)
	}
	if err := layout.CheckEntityID(key.EntityID()); err != nil {
		return err
	}
	if err := layout.CheckWrite(c, LocalTimeKeySize); err != nil {
		return err
	}
	c.PutLong(key.NanoOfDay)
	c.PutLong(key.EntityID())
	return layout.CheckBounds(c, layout.ErrCursorOverflow)
}

func (l *LocalTimeLayout) WriteValue(c layout.Cursor, value *layout.NativeValue) error {
	return layout.WriteNativeValue(c, value)
}

func (l *LocalTimeLayout) ReadKey(c layout.Cursor, into *LocalTimeKey, keySize int) error {
	if err := layout.CheckRead(c, keySize, LocalTimeKeySize); err != nil {
		return err
	}
	nanoOfDay := c.GetLong()
	entityID := c.GetLong()
	if err := layout.CheckBounds(c, layout.ErrTruncatedRead); err != nil {
		return err
	}
	into.NanoOfDay = nanoOfDay
	into.ResetEntity(entityID)
	return nil
}

func (l *LocalTimeLayout) ReadValue(c layout.Cursor, into *layout.NativeValue, valueSize int) error {
	return layout.ReadNativeValue(c, into, valueSize)
}

func (l *LocalTimeLayout) Compare(a, b *LocalTimeKey) int {
	if c := a.CompareValueTo(b); c != 0 {
		return c
	}
	return l.tieBreak(&a.Entity, &b.Entity)
}
