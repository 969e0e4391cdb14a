// Package temporal implements index layouts for temporal values.
//
// Each domain has a mutable key type and two layout singletons, one per
// uniqueness mode, selected by a factory from an index descriptor:
//
//	LocalDateTime  "UTld"/"NTld"  epochSecond int64, nanoOfSecond int32, entity id  (20 bytes)
//	Date           "UTda"/"NTda"  epochDay int64, entity id                          (16 bytes)
//	LocalTime      "UTlt"/"NTlt"  nanoOfDay int64, entity id                         (16 bytes)
//
// Values carry no payload: an index entry only records that an entity holds
// the value. All integers are written through the page cursor in its fixed
// little-endian convention.
//
// Usage:
//
//	l := temporal.LocalDateTimeLayoutOf(descriptor)
//	key := l.NewKey()
//	key.From(ts)
//	key.SetEntityID(nodeID)
//	if err := l.WriteKey(cursor, key); err != nil {
//		return err
//	}
package temporal
