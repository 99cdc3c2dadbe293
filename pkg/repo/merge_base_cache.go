package repo

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/odvcencio/strand/pkg/object"
)

type mergeBaseCacheKey struct {
	left  object.ID
	right object.ID
}

// mergeBaseCache memoizes merge bases by unordered commit pair. Commits are
// immutable, so entries never go stale. A nil cache stores nothing.
type mergeBaseCache[V, M any] struct {
	entries *lru.Cache[mergeBaseCacheKey, *Commit[V, M]]
}

func newMergeBaseCache[V, M any](size int) (*mergeBaseCache[V, M], error) {
	if size == 0 {
		return nil, nil
	}
	entries, err := lru.New[mergeBaseCacheKey, *Commit[V, M]](size)
	if err != nil {
		return nil, err
	}
	return &mergeBaseCache[V, M]{entries: entries}, nil
}

func canonicalMergeBaseCacheKey(a, b object.ID) mergeBaseCacheKey {
	if a <= b {
		return mergeBaseCacheKey{left: a, right: b}
	}
	return mergeBaseCacheKey{left: b, right: a}
}

// load returns the cached base for a and b; a nil base with ok set means
// the pair has no common ancestor.
func (c *mergeBaseCache[V, M]) load(a, b object.ID) (*Commit[V, M], bool) {
	if c == nil {
		return nil, false
	}
	return c.entries.Get(canonicalMergeBaseCacheKey(a, b))
}

func (c *mergeBaseCache[V, M]) store(a, b object.ID, base *Commit[V, M]) {
	if c == nil {
		return
	}
	c.entries.Add(canonicalMergeBaseCacheKey(a, b), base)
}

func (c *mergeBaseCache[V, M]) len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
