package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniquenessString(t *testing.T) {
	assert.Equal(t, "UNIQUE", Unique.String())
	assert.Equal(t, "NON_UNIQUE", NonUnique.String())
	assert.Equal(t, "Uniqueness(9)", Uniqueness(9).String())
}

func TestIndexDescriptor(t *testing.T) {
	props := []int32{1, 2}
	d := NewIndexDescriptor(7, 3, Unique, props...)
	props[0] = 99

	assert.True(t, d.IsUnique())
	assert.Equal(t, Unique, d.Uniqueness())
	assert.Equal(t, []int32{1, 2}, d.PropertyKeyIDs)
	assert.Equal(t, "idx-7-l3-p1_2", d.Name())
	assert.Equal(t, "idx-7-l3-p1_2(UNIQUE)", d.String())

	var desc Descriptor = NewIndexDescriptor(1, 1, NonUnique, 5)
	assert.Equal(t, NonUnique, desc.Uniqueness())
}
