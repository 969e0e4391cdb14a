package layout

import (
	"cmp"
	"math"

	"github.com/hupe1980/schemaidx/schema"
)

// EntityIDSize is the encoded width of an entity id.
const EntityIDSize = 8

// Entity holds the owning entity id and the transient compare-by-id flag.
// Schema keys embed it.
type Entity struct {
	entityID  int64
	compareID bool
}

// EntityID returns the owning entity id.
func (e *Entity) EntityID() int64 { return e.entityID }

// SetEntityID sets the owning entity id.
func (e *Entity) SetEntityID(id int64) { e.entityID = id }

// CompareID reports whether comparisons must fall through to the entity id.
func (e *Entity) CompareID() bool { return e.compareID }

// SetCompareID sets the transient compare-by-id flag. It is never persisted.
func (e *Entity) SetCompareID(compareID bool) { e.compareID = compareID }

// CopyEntity copies both entity fields from src.
func (e *Entity) CopyEntity(src *Entity) {
	e.entityID = src.entityID
	e.compareID = src.compareID
}

// ResetEntity sets the entity id and clears CompareID.
func (e *Entity) ResetEntity(id int64) {
	e.entityID = id
	e.compareID = false
}

// TieBreak orders two keys whose domain values compare equal.
type TieBreak func(a, b *Entity) int

// UniqueTieBreak treats equal values as equal unless either key asks for an
// entity id comparison.
func UniqueTieBreak(a, b *Entity) int {
	if a.compareID || b.compareID {
		return cmp.Compare(a.entityID, b.entityID)
	}
	return 0
}

// NonUniqueTieBreak always orders equal values by entity id.
func NonUniqueTieBreak(a, b *Entity) int {
	return cmp.Compare(a.entityID, b.entityID)
}

// TieBreakFor returns the tie-break policy for u. It is meant to be called
// once, when a layout singleton is built.
func TieBreakFor(u schema.Uniqueness) TieBreak {
	if u == schema.Unique {
		return UniqueTieBreak
	}
	return NonUniqueTieBreak
}

// InitRange turns from and to into boundary keys for a scan over
// [from, to] with the given inclusiveness. The domain values must already be
// set. Both keys get CompareID so that the comparator yields a strict order
// against stored keys even under unique layouts; the sentinel entity ids
// never match a stored one.
func InitRange(from, to Key, fromInclusive, toInclusive bool) {
	from.SetCompareID(true)
	to.SetCompareID(true)
	if fromInclusive {
		from.SetEntityID(math.MinInt64)
	} else {
		from.SetEntityID(math.MaxInt64)
	}
	if toInclusive {
		to.SetEntityID(math.MaxInt64)
	} else {
		to.SetEntityID(math.MinInt64)
	}
}
