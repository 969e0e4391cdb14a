package text

import (
	"slices"
	"strings"
	"testing"

	"github.com/hupe1980/schemaidx/layout"
	"github.com/hupe1980/schemaidx/pagecursor"
	"github.com/hupe1980/schemaidx/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string, id int64) *Key {
	k := &Key{}
	k.From(s)
	k.SetEntityID(id)
	return k
}

func TestLayoutOf(t *testing.T) {
	assert.Same(t, Unique, LayoutOf(schema.NewIndexDescriptor(1, 1, schema.Unique, 1)))
	assert.Same(t, NonUnique, LayoutOf(schema.NewIndexDescriptor(1, 1, schema.NonUnique, 1)))
	assert.False(t, Unique.FixedSize())
	assert.Equal(t, layout.MustNamedIdentifier("UTst", 0), Unique.Identifier())
	assert.Equal(t, schema.Unique, Unique.Uniqueness())
	assert.Equal(t, schema.NonUnique, NonUnique.Uniqueness())
}

func TestVariableKeySize(t *testing.T) {
	assert.Equal(t, 8, Unique.KeySize(key("", 1)))
	assert.Equal(t, 13, Unique.KeySize(key("hello", 1)))
	assert.Equal(t, 0, Unique.ValueSize(Unique.NewValue()))
}

func TestRoundTrip(t *testing.T) {
	c := pagecursor.New(256)
	inputs := []*Key{key("", 0), key("a", 1), key("häst", 2), key(strings.Repeat("x", 100), 3)}
	for _, k := range inputs {
		require.NoError(t, NonUnique.WriteKey(c, k))
	}

	c.SetOffset(0)
	into := key("stale stale stale", 99)
	for _, want := range inputs {
		require.NoError(t, NonUnique.ReadKey(c, into, NonUnique.KeySize(want)))
		assert.Equal(t, want.Value(), into.Value())
		assert.Equal(t, want.EntityID(), into.EntityID())
	}
}

func TestCopyKeyDoesNotAlias(t *testing.T) {
	src := key("abc", 1)
	src.SetCompareID(true)
	dst := Unique.CopyKey(src, Unique.NewKey())
	src.Bytes[0] = 'z'
	assert.Equal(t, "abc", dst.Value())
	assert.True(t, dst.CompareID())
}

func TestOrdering(t *testing.T) {
	keys := []*Key{key("b", 1), key("a", 9), key("ab", 0), key("a", 2), key("\xff", 0)}
	slices.SortFunc(keys, NonUnique.Compare)
	var got []string
	for _, k := range keys {
		got = append(got, k.String())
	}
	assert.Equal(t, []string{
		`Text["a" entity=2 compareId=false]`,
		`Text["a" entity=9 compareId=false]`,
		`Text["ab" entity=0 compareId=false]`,
		`Text["b" entity=1 compareId=false]`,
		`Text["\xff" entity=0 compareId=false]`,
	}, got)

	assert.Zero(t, Unique.Compare(key("a", 1), key("a", 2)))
	bound := key("a", 2)
	bound.SetCompareID(true)
	assert.Negative(t, Unique.Compare(key("a", 1), bound))
}

func TestFailures(t *testing.T) {
	big := key(strings.Repeat("x", MaxValueBytes+1), 1)
	assert.ErrorIs(t, Unique.WriteKey(pagecursor.New(8192), big), layout.ErrInvariant)
	assert.ErrorIs(t, Unique.WriteKey(pagecursor.New(4), key("abc", 1)), layout.ErrCursorOverflow)

	c := pagecursor.New(16)
	assert.ErrorIs(t, Unique.ReadKey(c, &Key{}, 4), layout.ErrTruncatedRead)
	assert.ErrorIs(t, Unique.ReadKey(c, &Key{}, 17), layout.ErrTruncatedRead)
	assert.ErrorIs(t, Unique.ReadKey(c, &Key{}, MaxKeySize+1), layout.ErrInvariant)
}
