// Package schema describes index descriptors as seen by the layout factories.
//
// Only the parts a layout needs are modeled here: the uniqueness of the
// index and enough identity to name it in logs and blob paths. Deciding
// whether an index is unique belongs to the catalog, not to this package.
package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Uniqueness is the closed set of index uniqueness modes.
type Uniqueness uint8

const (
	// NonUnique indexes allow many entities to share one value.
	NonUnique Uniqueness = iota
	// Unique indexes allow at most one entity per value.
	Unique
)

// String returns "UNIQUE" or "NON_UNIQUE".
func (u Uniqueness) String() string {
	switch u {
	case Unique:
		return "UNIQUE"
	case NonUnique:
		return "NON_UNIQUE"
	default:
		return "Uniqueness(" + strconv.Itoa(int(u)) + ")"
	}
}

// Descriptor is what a layout factory consumes.
type Descriptor interface {
	Uniqueness() Uniqueness
}

// IndexDescriptor identifies one schema index.
type IndexDescriptor struct {
	ID             uint64
	LabelID        int32
	PropertyKeyIDs []int32
	Type           Uniqueness
}

// NewIndexDescriptor returns a descriptor for a single- or multi-property index.
func NewIndexDescriptor(id uint64, labelID int32, typ Uniqueness, propertyKeyIDs ...int32) IndexDescriptor {
	return IndexDescriptor{
		ID:             id,
		LabelID:        labelID,
		PropertyKeyIDs: append([]int32(nil), propertyKeyIDs...),
		Type:           typ,
	}
}

// Uniqueness implements Descriptor.
func (d IndexDescriptor) Uniqueness() Uniqueness { return d.Type }

// IsUnique reports whether the index enforces one entity per value.
func (d IndexDescriptor) IsUnique() bool { return d.Type == Unique }

// Name returns a stable, path-safe name for the index, e.g. "idx-7-l3-p1_2".
func (d IndexDescriptor) Name() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "idx-%d-l%d-p", d.ID, d.LabelID)
	for i, p := range d.PropertyKeyIDs {
		if i > 0 {
			sb.WriteByte('_')
		}
		sb.WriteString(strconv.Itoa(int(p)))
	}
	return sb.String()
}

// String implements fmt.Stringer.
func (d IndexDescriptor) String() string {
	return fmt.Sprintf("%s(%s)", d.Name(), d.Type)
}
