package temporal

import (
	"testing"
	"time"

	"github.com/hupe1980/schemaidx/layout"
	"github.com/hupe1980/schemaidx/pagecursor"
	"github.com/hupe1980/schemaidx/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateLayout(t *testing.T) {
	unique := schema.NewIndexDescriptor(1, 1, schema.Unique, 1)
	assert.Same(t, UniqueDate, DateLayoutOf(unique))
	assert.Same(t, NonUniqueDate, DateLayoutOf(schema.NewIndexDescriptor(1, 1, schema.NonUnique, 1)))
	assert.Equal(t, layout.MustNamedIdentifier("UTda", 0), UniqueDate.Identifier())
	assert.Equal(t, 16, UniqueDate.KeySize(nil))
	assert.True(t, UniqueDate.FixedSize())

	k := UniqueDate.NewKey()
	k.From(time.Date(1969, 12, 31, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, int64(-1), k.EpochDay)
	k.From(time.Date(2000, 1, 1, 12, 0, 0, 0, time.FixedZone("x", 14*3600)))
	assert.Equal(t, int64(10957), k.EpochDay)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), k.Time())
	k.SetEntityID(8)

	c := pagecursor.New(DateKeySize)
	require.NoError(t, UniqueDate.WriteKey(c, k))
	c.SetOffset(0)
	into := UniqueDate.NewKey()
	require.NoError(t, UniqueDate.ReadKey(c, into, DateKeySize))
	assert.Equal(t, k.EpochDay, into.EpochDay)
	assert.Equal(t, int64(8), into.EntityID())

	other := UniqueDate.CopyKey(k, UniqueDate.NewKey())
	other.SetEntityID(9)
	assert.Zero(t, UniqueDate.Compare(k, other))
	assert.Negative(t, NonUniqueDate.Compare(k, other))
	other.SetCompareID(true)
	assert.Negative(t, UniqueDate.Compare(k, other))

	assert.ErrorIs(t, UniqueDate.WriteKey(pagecursor.New(DateKeySize-1), k), layout.ErrCursorOverflow)
}

func TestLocalTimeLayout(t *testing.T) {
	assert.Same(t, UniqueLocalTime, LocalTimeLayoutOf(schema.NewIndexDescriptor(1, 1, schema.Unique, 1)))
	assert.Same(t, NonUniqueLocalTime, LocalTimeLayoutOf(schema.NewIndexDescriptor(1, 1, schema.NonUnique, 1)))
	assert.Equal(t, layout.MustNamedIdentifier("NTlt", 0), NonUniqueLocalTime.Identifier())
	assert.Equal(t, 16, NonUniqueLocalTime.KeySize(nil))

	k := NonUniqueLocalTime.NewKey()
	k.From(time.Date(2020, 5, 5, 1, 2, 3, 4, time.UTC))
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second+4, k.Duration())
	k.SetEntityID(1)

	c := pagecursor.New(64)
	require.NoError(t, NonUniqueLocalTime.WriteKey(c, k))
	c.SetOffset(0)
	into := NonUniqueLocalTime.NewKey()
	require.NoError(t, NonUniqueLocalTime.ReadKey(c, into, LocalTimeKeySize))
	assert.Zero(t, NonUniqueLocalTime.Compare(k, into))

	bad := NonUniqueLocalTime.NewKey()
	bad.NanoOfDay = NanosPerDay
	assert.ErrorIs(t, NonUniqueLocalTime.WriteKey(c, bad), layout.ErrInvariant)

	lo, hi := &LocalTimeKey{}, &LocalTimeKey{}
	lo.InitAsLowest()
	hi.InitAsHighest()
	assert.Negative(t, lo.CompareValueTo(k))
	assert.Positive(t, hi.CompareValueTo(k))
}
