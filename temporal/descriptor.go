package temporal

import "github.com/hupe1980/schemaidx/schema"

// Descriptor is the index descriptor the factories consume.
type Descriptor = schema.Descriptor

func isUnique(d Descriptor) bool {
	return d.Uniqueness() == schema.Unique
}
