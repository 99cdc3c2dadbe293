package merge

import "fmt"

// Disposition describes the merge status of one dictionary key.
type Disposition int

const (
	Unchanged      Disposition = iota
	LeftOnly                   // left modified, right unchanged
	RightOnly                  // right modified, left unchanged
	BothSame                   // both modified identically
	BothModified               // both modified differently
	AddedLeft                  // new key in left, not in origin
	AddedRight                 // new key in right, not in origin
	AddedBoth                  // new key on both sides with different values
	DeletedLeft                // deleted by left
	DeletedRight               // deleted by right
	DeleteVsModify             // one side deleted, the other modified
)

func (d Disposition) String() string {
	switch d {
	case Unchanged:
		return "Unchanged"
	case LeftOnly:
		return "LeftOnly"
	case RightOnly:
		return "RightOnly"
	case BothSame:
		return "BothSame"
	case BothModified:
		return "BothModified"
	case AddedLeft:
		return "AddedLeft"
	case AddedRight:
		return "AddedRight"
	case AddedBoth:
		return "AddedBoth"
	case DeletedLeft:
		return "DeletedLeft"
	case DeletedRight:
		return "DeletedRight"
	case DeleteVsModify:
		return "DeleteVsModify"
	}
	return fmt.Sprintf("Disposition(%d)", int(d))
}

// MatchedKey pairs a key with its three-way disposition. Origin, Left and
// Right are nil where the key is absent.
type MatchedKey[K comparable, V any] struct {
	Key         K
	Disposition Disposition
	Origin      *V
	Left        *V
	Right       *V
}

// MatchKeys performs three-way key matching between origin, left and right.
// The key universe comes from merging the two keys edit scripts; keys are
// returned sorted.
func MatchKeys[K comparable, V any](origin, left, right map[K]V, equal func(a, b V) bool) []MatchedKey[K, V] {
	script := NewKeysEditScript(origin, left).Merge(NewKeysEditScript(origin, right))
	keys := script.Keys()
	result := make([]MatchedKey[K, V], 0, len(keys))
	for _, key := range keys {
		m := MatchedKey[K, V]{
			Key:    key,
			Origin: lookup(origin, key),
			Left:   lookup(left, key),
			Right:  lookup(right, key),
		}
		m.Disposition = classify(m.Origin, m.Left, m.Right, equal)
		result = append(result, m)
	}
	return result
}

func lookup[K comparable, V any](m map[K]V, k K) *V {
	v, ok := m[k]
	if !ok {
		return nil
	}
	return &v
}

// classify determines the Disposition for a key across three versions.
func classify[V any](origin, left, right *V, equal func(a, b V) bool) Disposition {
	inOrigin := origin != nil
	inLeft := left != nil
	inRight := right != nil

	switch {
	// Present in all three
	case inOrigin && inLeft && inRight:
		leftChanged := !equal(*left, *origin)
		rightChanged := !equal(*right, *origin)
		switch {
		case !leftChanged && !rightChanged:
			return Unchanged
		case leftChanged && !rightChanged:
			return LeftOnly
		case !leftChanged && rightChanged:
			return RightOnly
		case equal(*left, *right):
			return BothSame
		default:
			return BothModified
		}

	// In origin and left, not right: right deleted
	case inOrigin && inLeft && !inRight:
		if !equal(*left, *origin) {
			return DeleteVsModify
		}
		return DeletedRight

	// In origin and right, not left: left deleted
	case inOrigin && !inLeft && inRight:
		if !equal(*right, *origin) {
			return DeleteVsModify
		}
		return DeletedLeft

	// In origin only: both deleted, which both sides agree on
	case inOrigin && !inLeft && !inRight:
		return DeletedLeft

	case !inOrigin && inLeft && !inRight:
		return AddedLeft

	case !inOrigin && !inLeft && inRight:
		return AddedRight

	case !inOrigin && inLeft && inRight:
		if equal(*left, *right) {
			return BothSame
		}
		return AddedBoth
	}
	return Unchanged
}

func sprint(v any) string { return fmt.Sprint(v) }
