package merge

import "github.com/odvcencio/strand/pkg/diff"

// Handler merges three versions of a V. Repositories use one to build merge
// commits.
type Handler[V any] interface {
	Merge(origin, left, right V, policy Policy) (V, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[V any] func(origin, left, right V, policy Policy) (V, error)

func (f HandlerFunc[V]) Merge(origin, left, right V, policy Policy) (V, error) {
	return f(origin, left, right, policy)
}

// ValueHandler merges comparable values with Value.
func ValueHandler[T comparable]() Handler[T] {
	return HandlerFunc[T](Value[T])
}

// StringHandler merges texts with String using opts for the diffs.
func StringHandler(opts diff.Options) Handler[string] {
	return HandlerFunc[string](func(origin, left, right string, policy Policy) (string, error) {
		return String(origin, left, right, policy, opts)
	})
}

// DictionaryHandler merges maps with Dictionary.
func DictionaryHandler[K comparable, V comparable]() Handler[map[K]V] {
	return HandlerFunc[map[K]V](Dictionary[K, V])
}
