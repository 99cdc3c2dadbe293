package merge

// Dictionary merges two edited copies of a map. Keys kept by both sides are
// merged with Value; keys added or deleted on one side pass through; keys
// added on both sides with different values, and keys deleted on one side
// but modified on the other, are conflicts settled by policy. Under
// RaiseConflict every conflict is collected, sorted by key, and returned
// together in a *ConflictError.
func Dictionary[K comparable, V comparable](origin, left, right map[K]V, policy Policy) (map[K]V, error) {
	return DictionaryFunc(origin, left, right, policy, func(a, b V) bool { return a == b })
}

// DictionaryFunc is Dictionary for values compared with equal.
func DictionaryFunc[K comparable, V any](origin, left, right map[K]V, policy Policy, equal func(a, b V) bool) (map[K]V, error) {
	out := make(map[K]V, max(len(left), len(right)))
	var conflicts []Conflict

	for _, m := range MatchKeys(origin, left, right, equal) {
		switch m.Disposition {
		case Unchanged, LeftOnly, RightOnly, BothSame, BothModified:
			if m.Origin == nil {
				// Added on both sides with the same value.
				out[m.Key] = *m.Right
				break
			}
			v, err := ValueFunc(*m.Origin, *m.Left, *m.Right, policy, equal)
			if err != nil {
				conflicts = append(conflicts, keyConflict(m, ModifyModify))
				break
			}
			out[m.Key] = v

		case AddedLeft:
			out[m.Key] = *m.Left

		case AddedRight:
			out[m.Key] = *m.Right

		case DeletedLeft, DeletedRight:
			// Deleted on one side and untouched on the other, or on both.

		case AddedBoth:
			if v, ok := pick(policy, m.Left, m.Right); ok {
				out[m.Key] = *v
				break
			}
			conflicts = append(conflicts, keyConflict(m, AddAdd))

		case DeleteVsModify:
			kind := ModifyDelete
			if m.Left == nil {
				kind = DeleteModify
			}
			v, ok := pick(policy, m.Left, m.Right)
			if !ok {
				conflicts = append(conflicts, keyConflict(m, kind))
				break
			}
			if v != nil {
				out[m.Key] = *v
			}
		}
	}

	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}
	return out, nil
}

// pick returns the side chosen by policy, which may be an absent (nil)
// side. ok is false when the policy raises.
func pick[V any](policy Policy, left, right *V) (*V, bool) {
	switch policy {
	case TakeLeft, PreferCheaper:
		return left, true
	case TakeRight:
		return right, true
	}
	return nil, false
}

func keyConflict[K comparable, V any](m MatchedKey[K, V], kind ConflictKind) Conflict {
	return Conflict{
		Key:    m.Key,
		Kind:   kind,
		Origin: deref(m.Origin),
		Left:   deref(m.Left),
		Right:  deref(m.Right),
	}
}

func deref[V any](p *V) any {
	if p == nil {
		return nil
	}
	return *p
}
