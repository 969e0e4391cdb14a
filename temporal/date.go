package temporal

import (
	"cmp"
	"fmt"
	"math"
	"time"

	"github.com/hupe1980/schemaidx/layout"
	"github.com/hupe1980/schemaidx/schema"
)

// DateKeySize is the encoded size of a DateKey.
const DateKeySize = 8 + layout.EntityIDSize

// DateKey is the scratch key of the date domain: days since 1970-01-01.
type DateKey struct {
	layout.Entity
	EpochDay int64
}

// Initialize clears the value and CompareID and sets the entity id.
func (k *DateKey) Initialize(entityID int64) {
	k.EpochDay = 0
	k.ResetEntity(entityID)
}

// From sets the value to the calendar date of t in its own location.
func (k *DateKey) From(t time.Time) {
	y, m, d := t.Date()
	k.EpochDay = time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// Time returns midnight UTC of the date.
func (k *DateKey) Time() time.Time {
	return time.Unix(k.EpochDay*secondsPerDay, 0).UTC()
}

func (k *DateKey) InitAsLowest()  { k.EpochDay = math.MinInt64 }
func (k *DateKey) InitAsHighest() { k.EpochDay = math.MaxInt64 }

// CompareValueTo orders by epoch day.
func (k *DateKey) CompareValueTo(other *DateKey) int {
	return cmp.Compare(k.EpochDay, other.EpochDay)
}

func (k *DateKey) String() string {
	return fmt.Sprintf("Date[%d entity=%d compareId=%t]", k.EpochDay, k.EntityID(), k.CompareID())
}

const secondsPerDay = 86_400

var (
	// UniqueDate is the layout of unique date indexes.
	UniqueDate = newDateLayout("UTda", schema.Unique)

	// NonUniqueDate is the layout of non-unique date indexes.
	NonUniqueDate = newDateLayout("NTda", schema.NonUnique)
)

// DateLayoutOf selects the date layout singleton for d.
func DateLayoutOf(d Descriptor) *DateLayout {
	if isUnique(d) {
		return UniqueDate
	}
	return NonUniqueDate
}

// DateLayout encodes DateKey as epoch day followed by entity id.
type DateLayout struct {
	identifier int64
	uniqueness schema.Uniqueness
	tieBreak   layout.TieBreak
}

var _ layout.Layout[*DateKey, *layout.NativeValue] = (*DateLayout)(nil)

func newDateLayout(name string, u schema.Uniqueness) *DateLayout {
	return &DateLayout{
		identifier: layout.MustNamedIdentifier(name, layout.NativeValueSize),
		uniqueness: u,
		tieBreak:   layout.TieBreakFor(u),
	}
}

func (l *DateLayout) Identifier() int64 { return l.identifier }
func (l *DateLayout) MajorVersion() int { return 0 }
func (l *DateLayout) MinorVersion() int { return 1 }

// Uniqueness reports whether this singleton serves unique indexes.
func (l *DateLayout) Uniqueness() schema.Uniqueness { return l.uniqueness }

func (l *DateLayout) NewKey() *DateKey { return &DateKey{} }

func (l *DateLayout) CopyKey(src, dst *DateKey) *DateKey {
	dst.EpochDay = src.EpochDay
	dst.CopyEntity(&src.Entity)
	return dst
}

func (l *DateLayout) NewValue() *layout.NativeValue { return layout.NativeValueInstance }

func (l *DateLayout) KeySize(*DateKey) int              { return DateKeySize }
func (l *DateLayout) ValueSize(*layout.NativeValue) int { return layout.NativeValueSize }
func (l *DateLayout) FixedSize() bool                   { return true }

func (l *DateLayout) WriteKey(c layout.Cursor, key *DateKey) error {
	if err := layout.CheckEntityID(key.EntityID()); err != nil {
		return err
	}
	if err := layout.CheckWrite(c, DateKeySize); err != nil {
		return err
	}
	c.PutLong(key.EpochDay)
	c.PutLong(key.EntityID())
	return layout.CheckBounds(c, layout.ErrCursorOverflow)
}

func (l *DateLayout) WriteValue(c layout.Cursor, value *layout.NativeValue) error {
	return layout.WriteNativeValue(c, value)
}

func (l *DateLayout) ReadKey(c layout.Cursor, into *DateKey, keySize int) error {
	if err := layout.CheckRead(c, keySize, DateKeySize); err != nil {
		return err
	}
	epochDay := c.GetLong()
	entityID := c.GetLong()
	if err := layout.CheckBounds(c, layout.ErrTruncatedRead); err != nil {
		return err
	}
	into.EpochDay = epochDay
	into.ResetEntity(entityID)
	return nil
}

func (l *DateLayout) ReadValue(c layout.Cursor, into *layout.NativeValue, valueSize int) error {
	return layout.ReadNativeValue(c, into, valueSize)
}

func (l *DateLayout) Compare(a, b *DateKey) int {
	if c := a.CompareValueTo(b); c != 0 {
		return c
	}
	return l.tieBreak(&a.Entity, &b.Entity)
}
