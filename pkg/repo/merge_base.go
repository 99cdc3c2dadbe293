package repo

import (
	"container/heap"
	"fmt"

	"github.com/odvcencio/strand/pkg/object"
)

const maxMergeBaseSteps = 1_000_000

// Tests may tighten this; values outside (0, maxMergeBaseSteps] fall back
// to the hard maximum.
var mergeBaseStepsLimit = maxMergeBaseSteps

func mergeBaseTraversalLimit() int {
	if mergeBaseStepsLimit <= 0 || mergeBaseStepsLimit > maxMergeBaseSteps {
		return maxMergeBaseSteps
	}
	return mergeBaseStepsLimit
}

func mergeBaseStepsLimitError(limit int) error {
	return fmt.Errorf("find merge base: traversal exceeded maximum steps (%d)", limit)
}

// FindMergeBase returns the lowest common ancestor of a and b: among the
// commits reachable from both, the one with the highest generation, ties
// broken by the smaller ID. It returns nil when the histories are unrelated.
// Results are memoized per unordered pair.
func (r *Repository[V, M]) FindMergeBase(a, b *Commit[V, M]) (*Commit[V, M], error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("find merge base: nil commit: %w", ErrInvalidArgument)
	}
	if a.id == b.id {
		return a, nil
	}
	if cached, ok := r.bases.load(a.id, b.id); ok {
		r.logger.Debug("merge base cache hit", "left", a.id, "right", b.id, "base", cached)
		return cached, nil
	}

	// Fast path: one side already contains the other. Only the lower
	// generation can be the ancestor.
	lo, hi := a, b
	if a.generation > b.generation || (a.generation == b.generation && a.id > b.id) {
		lo, hi = b, a
	}
	isAncestor, err := isAncestor(lo, hi)
	if err != nil {
		return nil, err
	}
	if isAncestor {
		r.bases.store(a.id, b.id, lo)
		return lo, nil
	}

	base, err := findMergeBaseWithPruning(a, b)
	if err != nil {
		return nil, err
	}
	r.bases.store(a.id, b.id, base)
	return base, nil
}

// IsAncestor reports whether ancestor is reachable from descendant. A commit
// is its own ancestor.
func (r *Repository[V, M]) IsAncestor(ancestor, descendant *Commit[V, M]) (bool, error) {
	if ancestor == nil || descendant == nil {
		return false, fmt.Errorf("is ancestor: nil commit: %w", ErrInvalidArgument)
	}
	return isAncestor(ancestor, descendant)
}

func isAncestor[V, M any](ancestor, descendant *Commit[V, M]) (bool, error) {
	if ancestor.id == descendant.id {
		return true, nil
	}
	if ancestor.generation >= descendant.generation {
		return false, nil
	}

	limit := mergeBaseTraversalLimit()
	visited := map[object.ID]struct{}{descendant.id: {}}
	queue := []*Commit[V, M]{descendant}
	steps := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		steps++
		if steps > limit {
			return false, mergeBaseStepsLimitError(limit)
		}
		if cur.id == ancestor.id {
			return true, nil
		}
		if cur.generation <= ancestor.generation {
			continue
		}
		for _, p := range cur.parents {
			if _, seen := visited[p.id]; seen {
				continue
			}
			if p.generation < ancestor.generation {
				continue
			}
			visited[p.id] = struct{}{}
			queue = append(queue, p)
		}
	}
	return false, nil
}

// findMergeBaseWithPruning walks both histories highest generation first,
// always advancing the side with the higher top. A commit reached from both
// sides is a candidate; once both queues drop below the best candidate's
// generation nothing better can appear.
func findMergeBaseWithPruning[V, M any](a, b *Commit[V, M]) (*Commit[V, M], error) {
	limit := mergeBaseTraversalLimit()

	visitedA := map[object.ID]struct{}{a.id: {}}
	visitedB := map[object.ID]struct{}{b.id: {}}
	queueA := mergeBaseMaxHeap[V, M]{a}
	queueB := mergeBaseMaxHeap[V, M]{b}

	var best *Commit[V, M]
	steps := 0

	for queueA.Len() > 0 || queueB.Len() > 0 {
		if best != nil {
			topA, okA := queueA.Peek()
			topB, okB := queueB.Peek()
			if (!okA || topA.generation < best.generation) && (!okB || topB.generation < best.generation) {
				break
			}
		}

		var traverseA bool
		switch {
		case queueA.Len() == 0:
			traverseA = false
		case queueB.Len() == 0:
			traverseA = true
		default:
			topA, topB := queueA[0], queueB[0]
			if topA.generation != topB.generation {
				traverseA = topA.generation > topB.generation
			} else {
				traverseA = topA.id <= topB.id
			}
		}

		var item *Commit[V, M]
		if traverseA {
			item = heap.Pop(&queueA).(*Commit[V, M])
		} else {
			item = heap.Pop(&queueB).(*Commit[V, M])
		}

		steps++
		if steps > limit {
			return nil, mergeBaseStepsLimitError(limit)
		}
		if best != nil && item.generation < best.generation {
			continue
		}

		own, foreign, queue := visitedA, visitedB, &queueA
		if !traverseA {
			own, foreign, queue = visitedB, visitedA, &queueB
		}
		if _, seen := foreign[item.id]; seen {
			best = chooseBetterMergeBase(best, item)
		}

		for _, p := range item.parents {
			if best != nil && p.generation < best.generation {
				continue
			}
			if _, seen := own[p.id]; seen {
				continue
			}
			own[p.id] = struct{}{}
			heap.Push(queue, p)
			if _, seen := foreign[p.id]; seen {
				best = chooseBetterMergeBase(best, p)
			}
		}
	}
	return best, nil
}

func chooseBetterMergeBase[V, M any](best, candidate *Commit[V, M]) *Commit[V, M] {
	switch {
	case best == nil:
		return candidate
	case candidate.generation > best.generation:
		return candidate
	case candidate.generation < best.generation:
		return best
	case candidate.id < best.id:
		return candidate
	}
	return best
}
