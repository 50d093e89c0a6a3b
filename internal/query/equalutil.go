package query

import "reflect"

// DeepEqual is a reflect.DeepEqual-backed equality function suitable for
// the composite HIR/analysis/lint payload types (structs of slices and
// maps) that most Tracked instances in this codebase use. It is not
// pointer identity: two distinct *FileStructure values with identical
// field contents compare equal, which is the back-edge-equality contract
// tracked functions depend on (spec.md §4.1, §9).
func DeepEqual[V any](a, b V) bool {
	return reflect.DeepEqual(a, b)
}

// PointerDeepEqual dereferences two pointers (treating both nil as equal)
// and compares the pointees with reflect.DeepEqual. Most HIR queries
// return *Struct rather than Struct so callers can cheaply detect "no
// change" via a nil diff before committing to the full comparison.
func PointerDeepEqual[V any](a, b *V) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return reflect.DeepEqual(*a, *b)
}
