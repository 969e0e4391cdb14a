package layout

import (
	"math"
	"testing"

	"github.com/hupe1980/schemaidx/schema"
	"github.com/stretchr/testify/assert"
)

func entity(id int64, compareID bool) *Entity {
	e := &Entity{}
	e.SetEntityID(id)
	e.SetCompareID(compareID)
	return e
}

func TestUniqueTieBreak(t *testing.T) {
	assert.Equal(t, 0, UniqueTieBreak(entity(1, false), entity(2, false)))
	assert.Equal(t, -1, UniqueTieBreak(entity(1, true), entity(2, false)))
	assert.Equal(t, 1, UniqueTieBreak(entity(2, false), entity(1, true)))
	assert.Equal(t, 0, UniqueTieBreak(entity(3, true), entity(3, true)))
}

func TestNonUniqueTieBreak(t *testing.T) {
	assert.Equal(t, -1, NonUniqueTieBreak(entity(1, false), entity(2, false)))
	assert.Equal(t, 1, NonUniqueTieBreak(entity(5, false), entity(3, false)))
	assert.Equal(t, 0, NonUniqueTieBreak(entity(4, true), entity(4, false)))
	assert.Equal(t, -1, NonUniqueTieBreak(entity(math.MinInt64, false), entity(0, false)))
}

func TestTieBreakFor(t *testing.T) {
	a, b := entity(1, false), entity(2, false)
	assert.Equal(t, 0, TieBreakFor(schema.Unique)(a, b))
	assert.Equal(t, -1, TieBreakFor(schema.NonUnique)(a, b))
}

func TestEntityCopyAndReset(t *testing.T) {
	src := entity(9, true)
	var dst Entity
	dst.CopyEntity(src)
	assert.Equal(t, int64(9), dst.EntityID())
	assert.True(t, dst.CompareID())

	dst.ResetEntity(4)
	assert.Equal(t, int64(4), dst.EntityID())
	assert.False(t, dst.CompareID())
}

func TestInitRange(t *testing.T) {
	tests := []struct {
		name                       string
		fromInclusive, toInclusive bool
		fromID, toID               int64
	}{
		{"closed", true, true, math.MinInt64, math.MaxInt64},
		{"open", false, false, math.MaxInt64, math.MinInt64},
		{"half open", true, false, math.MinInt64, math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := &Entity{}, &Entity{}
			InitRange(from, to, tt.fromInclusive, tt.toInclusive)
			assert.True(t, from.CompareID())
			assert.True(t, to.CompareID())
			assert.Equal(t, tt.fromID, from.EntityID())
			assert.Equal(t, tt.toID, to.EntityID())
		})
	}
}
