package temporal

import (
	"math"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/hupe1980/schemaidx/layout"
	"github.com/hupe1980/schemaidx/pagecursor"
	"github.com/hupe1980/schemaidx/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ldt(epochSecond int64, nano int32, entityID int64) *LocalDateTimeKey {
	k := &LocalDateTimeKey{}
	k.FromValue(epochSecond, nano)
	k.SetEntityID(entityID)
	return k
}

func bothLocalDateTimeLayouts() []*LocalDateTimeLayout {
	return []*LocalDateTimeLayout{UniqueLocalDateTime, NonUniqueLocalDateTime}
}

func TestLocalDateTimeLayoutOf(t *testing.T) {
	assert.Same(t, UniqueLocalDateTime, LocalDateTimeLayoutOf(schema.NewIndexDescriptor(1, 1, schema.Unique, 1)))
	assert.Same(t, NonUniqueLocalDateTime, LocalDateTimeLayoutOf(schema.NewIndexDescriptor(1, 1, schema.NonUnique, 1)))
}

func TestLocalDateTimeIdentity(t *testing.T) {
	assert.Equal(t, layout.MustNamedIdentifier("UTld", 0), UniqueLocalDateTime.Identifier())
	assert.Equal(t, layout.MustNamedIdentifier("NTld", 0), NonUniqueLocalDateTime.Identifier())
	assert.NotEqual(t, UniqueLocalDateTime.Identifier(), NonUniqueLocalDateTime.Identifier())
	for _, l := range bothLocalDateTimeLayouts() {
		assert.Equal(t, 0, l.MajorVersion())
		assert.Equal(t, 1, l.MinorVersion())
		assert.True(t, l.FixedSize())
	}
	assert.Equal(t, "LocalDateTimeLayout(UTld)", UniqueLocalDateTime.String())
}

func TestLocalDateTimeFixedSizes(t *testing.T) {
	for _, l := range bothLocalDateTimeLayouts() {
		assert.Equal(t, 20, l.KeySize(l.NewKey()))
		assert.Equal(t, 20, l.KeySize(ldt(math.MaxInt64, NanosPerSecond-1, math.MaxInt64)))
		assert.Equal(t, 0, l.ValueSize(l.NewValue()))
	}
}

func TestLocalDateTimeWireFormat(t *testing.T) {
	c := pagecursor.New(LocalDateTimeKeySize)
	require.NoError(t, NonUniqueLocalDateTime.WriteKey(c, ldt(1, 2, 3)))
	assert.Equal(t, []byte{
		1, 0, 0, 0, 0, 0, 0, 0,
		2, 0, 0, 0,
		3, 0, 0, 0, 0, 0, 0, 0,
	}, c.Bytes())
}

func TestLocalDateTimeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := pagecursor.New(4096)

	var written []*LocalDateTimeKey
	for i := 0; i < 200; i++ {
		k := ldt(rng.Int63()-rng.Int63(), int32(rng.Intn(NanosPerSecond)), rng.Int63())
		written = append(written, k)
		require.NoError(t, UniqueLocalDateTime.WriteKey(c, k))
		require.NoError(t, UniqueLocalDateTime.WriteValue(c, UniqueLocalDateTime.NewValue()))
	}
	assert.Equal(t, 200*LocalDateTimeKeySize, c.Offset())

	c.SetOffset(0)
	into := UniqueLocalDateTime.NewKey()
	for _, want := range written {
		into.SetCompareID(true)
		require.NoError(t, UniqueLocalDateTime.ReadKey(c, into, LocalDateTimeKeySize))
		require.NoError(t, UniqueLocalDateTime.ReadValue(c, UniqueLocalDateTime.NewValue(), 0))
		assert.Equal(t, want.EpochSecond, into.EpochSecond)
		assert.Equal(t, want.NanoOfSecond, into.NanoOfSecond)
		assert.Equal(t, want.EntityID(), into.EntityID())
		assert.False(t, into.CompareID(), "compareId is transient")
	}
}

func TestLocalDateTimeCopyKey(t *testing.T) {
	src := ldt(10, 20, 30)
	src.SetCompareID(true)
	dst := ldt(-1, 999, 77)

	got := UniqueLocalDateTime.CopyKey(src, dst)
	assert.Same(t, dst, got)
	assert.Equal(t, *src, *dst)

	src.EpochSecond = 11
	src.SetEntityID(31)
	assert.Equal(t, int64(10), dst.EpochSecond)
	assert.Equal(t, int64(30), dst.EntityID())
}

func TestLocalDateTimeCompareValue(t *testing.T) {
	assert.Negative(t, ldt(1, 999, 0).CompareValueTo(ldt(2, 0, 0)))
	assert.Positive(t, ldt(2, 1, 0).CompareValueTo(ldt(2, 0, 0)))
	assert.Zero(t, ldt(2, 5, 1).CompareValueTo(ldt(2, 5, 9)))
	assert.Negative(t, ldt(-1, 0, 0).CompareValueTo(ldt(0, 0, 0)))
}

func TestLocalDateTimeUniqueSemantics(t *testing.T) {
	a, b := ldt(1000, 0, 5), ldt(1000, 0, 3)

	assert.Zero(t, UniqueLocalDateTime.Compare(a, b), "equal values are one logical value")

	a.SetCompareID(true)
	assert.Positive(t, UniqueLocalDateTime.Compare(a, b))
	assert.Negative(t, UniqueLocalDateTime.Compare(b, a))

	a.SetCompareID(false)
	b.SetCompareID(true)
	assert.Positive(t, UniqueLocalDateTime.Compare(a, b))

	c := ldt(1000, 0, 3)
	c.SetCompareID(true)
	assert.Zero(t, UniqueLocalDateTime.Compare(b, c), "same entity and value stay equal")
}

func TestLocalDateTimeNonUniqueSemantics(t *testing.T) {
	key5, key3 := ldt(1000, 0, 5), ldt(1000, 0, 3)
	assert.Positive(t, NonUniqueLocalDateTime.Compare(key5, key3))
	assert.Negative(t, NonUniqueLocalDateTime.Compare(key3, key5))

	keys := []*LocalDateTimeKey{key5, key3}
	slices.SortFunc(keys, NonUniqueLocalDateTime.Compare)
	assert.Equal(t, int64(3), keys[0].EntityID())
	assert.Equal(t, int64(5), keys[1].EntityID())

	assert.Negative(t, NonUniqueLocalDateTime.Compare(ldt(999, 0, 100), key3), "value dominates entity id")
}

func TestLocalDateTimeBoundaryInclusivity(t *testing.T) {
	stored := ldt(1000, 0, 5)

	bound := ldt(1000, 0, 7)
	assert.Zero(t, UniqueLocalDateTime.Compare(bound, stored), "plain uniqueness check sees a duplicate")

	bound.SetCompareID(true)
	assert.NotZero(t, UniqueLocalDateTime.Compare(bound, stored), "range boundary is not a duplicate")

	from, to := ldt(1000, 0, 0), ldt(1000, 0, 0)
	layout.InitRange(from, to, true, true)
	assert.Negative(t, UniqueLocalDateTime.Compare(from, stored))
	assert.Positive(t, UniqueLocalDateTime.Compare(to, stored))

	layout.InitRange(from, to, false, false)
	assert.Positive(t, UniqueLocalDateTime.Compare(from, stored))
	assert.Negative(t, UniqueLocalDateTime.Compare(to, stored))
}

func TestLocalDateTimeTotalOrder(t *testing.T) {
	// Small domains force many value collisions. CompareID is uniform within
	// one key set: a plain uniqueness check or a range boundary.
	for _, compareID := range []bool{false, true} {
		for _, l := range bothLocalDateTimeLayouts() {
			rng := rand.New(rand.NewSource(7))
			keys := make([]*LocalDateTimeKey, 40)
			for i := range keys {
				keys[i] = ldt(int64(rng.Intn(3))-1, int32(rng.Intn(2)), int64(rng.Intn(4)))
				keys[i].SetCompareID(compareID)
			}
			for _, a := range keys {
				for _, b := range keys {
					require.Equal(t, l.Compare(a, b), -l.Compare(b, a))
					for _, c := range keys {
						if l.Compare(a, b) <= 0 && l.Compare(b, c) <= 0 {
							require.LessOrEqual(t, l.Compare(a, c), 0, "%s compareId=%t: %v %v %v", l, compareID, a, b, c)
						}
					}
				}
			}
		}
	}
}

func TestLocalDateTimeNonUniqueNeverEqualAcrossEntities(t *testing.T) {
	for e1 := int64(0); e1 < 5; e1++ {
		for e2 := int64(0); e2 < 5; e2++ {
			got := NonUniqueLocalDateTime.Compare(ldt(1, 1, e1), ldt(1, 1, e2))
			if e1 == e2 {
				assert.Zero(t, got)
			} else {
				assert.NotZero(t, got)
			}
		}
	}
}

func TestLocalDateTimeWriteFailures(t *testing.T) {
	t.Run("overflow", func(t *testing.T) {
		c := pagecursor.New(LocalDateTimeKeySize - 1)
		err := UniqueLocalDateTime.WriteKey(c, ldt(1, 1, 1))
		assert.ErrorIs(t, err, layout.ErrCursorOverflow)
		assert.Equal(t, 0, c.Offset(), "nothing written")
	})

	t.Run("nano out of range", func(t *testing.T) {
		c := pagecursor.New(64)
		assert.ErrorIs(t, UniqueLocalDateTime.WriteKey(c, ldt(1, NanosPerSecond, 1)), layout.ErrInvariant)
		assert.ErrorIs(t, UniqueLocalDateTime.WriteKey(c, ldt(1, -1, 1)), layout.ErrInvariant)
		assert.Equal(t, 0, c.Offset())
	})

	t.Run("negative entity", func(t *testing.T) {
		c := pagecursor.New(64)
		assert.ErrorIs(t, NonUniqueLocalDateTime.WriteKey(c, ldt(1, 1, -1)), layout.ErrInvariant)
	})
}

func TestLocalDateTimeReadFailures(t *testing.T) {
	c := pagecursor.New(64)
	require.NoError(t, UniqueLocalDateTime.WriteKey(c, ldt(1, 2, 3)))

	into := ldt(9, 9, 9)

	c.SetOffset(0)
	assert.ErrorIs(t, UniqueLocalDateTime.ReadKey(c, into, LocalDateTimeKeySize-1), layout.ErrTruncatedRead)
	assert.ErrorIs(t, UniqueLocalDateTime.ReadKey(c, into, LocalDateTimeKeySize+1), layout.ErrInvariant)

	c.SetOffset(64 - 10)
	assert.ErrorIs(t, UniqueLocalDateTime.ReadKey(c, into, LocalDateTimeKeySize), layout.ErrTruncatedRead)
	assert.Equal(t, int64(9), into.EpochSecond, "failed read leaves key untouched")

	assert.ErrorIs(t, UniqueLocalDateTime.ReadValue(c, layout.NativeValueInstance, 1), layout.ErrTruncatedRead)
}

func TestLocalDateTimeKeyHelpers(t *testing.T) {
	ts := time.Date(2024, 2, 29, 13, 14, 15, 123456789, time.UTC)
	k := &LocalDateTimeKey{}
	k.From(ts)
	assert.Equal(t, ts, k.Time())

	k.SetCompareID(true)
	k.Initialize(42)
	assert.Equal(t, LocalDateTimeKey{}.EpochSecond, k.EpochSecond)
	assert.Equal(t, int64(42), k.EntityID())
	assert.False(t, k.CompareID())

	lo, hi := &LocalDateTimeKey{}, &LocalDateTimeKey{}
	lo.InitAsLowest()
	hi.InitAsHighest()
	assert.Negative(t, lo.CompareValueTo(ldt(math.MinInt64, 1, 0)))
	assert.Positive(t, hi.CompareValueTo(ldt(math.MaxInt64, NanosPerSecond-2, 0)))
	assert.Contains(t, ldt(1, 2, 3).String(), "entity=3")
}

func TestLocalDateTimeFromWallClock(t *testing.T) {
	tests := []struct {
		name string
		loc  *time.Location
	}{
		{"utc", time.UTC},
		{"east", time.FixedZone("+14", 14*3600)},
		{"west", time.FixedZone("-12", -12*3600)},
		{"half hour", time.FixedZone("+0530", 5*3600+1800)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := time.Date(2000, 1, 1, 12, 0, 0, 250, tt.loc)

			var k LocalDateTimeKey
			k.From(ts)
			assert.Equal(t, time.Date(2000, 1, 1, 12, 0, 0, 250, time.UTC), k.Time())

			var d DateKey
			d.From(ts)
			var lt LocalTimeKey
			lt.From(ts)
			assert.Equal(t, d.Time(), k.Time().Truncate(24*time.Hour))
			assert.Equal(t, lt.Duration(), k.Time().Sub(d.Time()))
		})
	}
}

func TestLocalDateTimeReadRejectsNanoOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		nano int32
	}{
		{"one second", NanosPerSecond},
		{"negative", -1},
		{"max int32", math.MaxInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := pagecursor.New(LocalDateTimeKeySize)
			c.PutLong(5)
			c.PutInt(tt.nano)
			c.PutLong(7)
			c.SetOffset(0)

			into := ldt(9, 9, 9)
			err := NonUniqueLocalDateTime.ReadKey(c, into, LocalDateTimeKeySize)
			assert.ErrorIs(t, err, layout.ErrInvariant)
			assert.Equal(t, int64(9), into.EpochSecond, "failed read leaves key untouched")
		})
	}
}

func TestLayoutUniqueness(t *testing.T) {
	tests := []struct {
		name string
		got  schema.Uniqueness
		want schema.Uniqueness
	}{
		{"unique local date time", UniqueLocalDateTime.Uniqueness(), schema.Unique},
		{"non-unique local date time", NonUniqueLocalDateTime.Uniqueness(), schema.NonUnique},
		{"unique date", UniqueDate.Uniqueness(), schema.Unique},
		{"non-unique date", NonUniqueDate.Uniqueness(), schema.NonUnique},
		{"unique local time", UniqueLocalTime.Uniqueness(), schema.Unique},
		{"non-unique local time", NonUniqueLocalTime.Uniqueness(), schema.NonUnique},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
