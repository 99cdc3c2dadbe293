package merge

import (
	"cmp"
	"slices"
)

// KeysEditScript describes how the key set of a dictionary changed: keys
// kept, deleted and inserted relative to an origin.
type KeysEditScript[K comparable] struct {
	Common   map[K]struct{}
	Deleted  map[K]struct{}
	Inserted map[K]struct{}
}

// NewKeysEditScript compares the keys of origin and target.
func NewKeysEditScript[K comparable, V any](origin, target map[K]V) KeysEditScript[K] {
	s := KeysEditScript[K]{
		Common:   make(map[K]struct{}),
		Deleted:  make(map[K]struct{}),
		Inserted: make(map[K]struct{}),
	}
	for k := range origin {
		if _, ok := target[k]; ok {
			s.Common[k] = struct{}{}
		} else {
			s.Deleted[k] = struct{}{}
		}
	}
	for k := range target {
		if _, ok := origin[k]; !ok {
			s.Inserted[k] = struct{}{}
		}
	}
	return s
}

// Merge combines two scripts taken from the same origin. A key stays common
// only if both sides kept it; deletions and insertions from either side are
// unioned.
func (s KeysEditScript[K]) Merge(other KeysEditScript[K]) KeysEditScript[K] {
	out := KeysEditScript[K]{
		Common:   make(map[K]struct{}),
		Deleted:  make(map[K]struct{}),
		Inserted: make(map[K]struct{}),
	}
	for k := range s.Common {
		if _, ok := other.Common[k]; ok {
			out.Common[k] = struct{}{}
		}
	}
	for _, src := range []map[K]struct{}{s.Deleted, other.Deleted} {
		for k := range src {
			out.Deleted[k] = struct{}{}
		}
	}
	for _, src := range []map[K]struct{}{s.Inserted, other.Inserted} {
		for k := range src {
			out.Inserted[k] = struct{}{}
		}
	}
	return out
}

// Keys returns every key the script mentions, sorted.
func (s KeysEditScript[K]) Keys() []K {
	seen := make(map[K]struct{}, len(s.Common)+len(s.Deleted)+len(s.Inserted))
	for _, src := range []map[K]struct{}{s.Common, s.Deleted, s.Inserted} {
		for k := range src {
			seen[k] = struct{}{}
		}
	}
	keys := make([]K, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys[K])
	return keys
}

// compareKeys orders keys of any comparable type: ordered kinds by value,
// everything else by its printed form.
func compareKeys[K comparable](a, b K) int {
	switch x := any(a).(type) {
	case string:
		return cmp.Compare(x, any(b).(string))
	case int:
		return cmp.Compare(x, any(b).(int))
	case int64:
		return cmp.Compare(x, any(b).(int64))
	case int32:
		return cmp.Compare(x, any(b).(int32))
	case uint:
		return cmp.Compare(x, any(b).(uint))
	case uint64:
		return cmp.Compare(x, any(b).(uint64))
	case float64:
		return cmp.Compare(x, any(b).(float64))
	}
	return cmp.Compare(sprint(a), sprint(b))
}
