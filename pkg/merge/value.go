package merge

// Value merges a single comparable value:
//
//  1. left == right: both sides agree, return right
//  2. origin == left: only right changed, return right
//  3. origin == right: only left changed, return left
//  4. otherwise apply policy
func Value[T comparable](origin, left, right T, policy Policy) (T, error) {
	return ValueFunc(origin, left, right, policy, func(a, b T) bool { return a == b })
}

// ValueFunc is Value for types compared with equal.
func ValueFunc[T any](origin, left, right T, policy Policy, equal func(a, b T) bool) (T, error) {
	switch {
	case equal(left, right):
		return right, nil
	case equal(origin, left):
		return right, nil
	case equal(origin, right):
		return left, nil
	}
	return resolve(policy, left, right, Conflict{Kind: ModifyModify, Origin: origin, Left: left, Right: right})
}

// resolve settles one conflict between two present values.
func resolve[T any](policy Policy, left, right T, c Conflict) (T, error) {
	switch policy {
	case TakeLeft, PreferCheaper:
		return left, nil
	case TakeRight:
		return right, nil
	}
	var zero T
	return zero, &ConflictError{Conflicts: []Conflict{c}}
}
