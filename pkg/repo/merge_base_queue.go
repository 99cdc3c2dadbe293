package repo

type mergeBaseMaxHeap[V, M any] []*Commit[V, M]

func (h mergeBaseMaxHeap[V, M]) Len() int { return len(h) }

func (h mergeBaseMaxHeap[V, M]) Less(i, j int) bool {
	if h[i].generation == h[j].generation {
		return h[i].id < h[j].id
	}
	return h[i].generation > h[j].generation
}

func (h mergeBaseMaxHeap[V, M]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *mergeBaseMaxHeap[V, M]) Push(x any) {
	*h = append(*h, x.(*Commit[V, M]))
}

func (h *mergeBaseMaxHeap[V, M]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

func (h mergeBaseMaxHeap[V, M]) Peek() (*Commit[V, M], bool) {
	if len(h) == 0 {
		return nil, false
	}
	return h[0], true
}
