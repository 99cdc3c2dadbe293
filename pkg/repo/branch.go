package repo

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Branch is a named head pointer into the commit graph. Commits and merges
// on one branch are serialized by its mutex; the head itself is read
// without locking.
type Branch[V, M any] struct {
	name string
	repo *Repository[V, M]

	mu   sync.Mutex
	head atomic.Pointer[Commit[V, M]]
}

// Name returns the branch name.
func (b *Branch[V, M]) Name() string { return b.name }

// Head returns the newest commit, or nil for an empty branch.
func (b *Branch[V, M]) Head() *Commit[V, M] { return b.head.Load() }

// Commit records value as a child of the current head and advances the
// head. If value equals the head's value the head is returned unchanged.
func (b *Branch[V, M]) Commit(value V, meta M) (*Commit[V, M], error) {
	r := b.repo
	encoded, err := r.encode(value)
	if err != nil {
		return nil, fmt.Errorf("commit on %q: %w", b.name, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	head := b.head.Load()
	var parents []*Commit[V, M]
	if head != nil {
		if r.sameValue(head, value, encoded) {
			return head, nil
		}
		parents = []*Commit[V, M]{head}
	}
	c, err := r.newCommit(value, encoded, meta, parents...)
	if err != nil {
		return nil, fmt.Errorf("commit on %q: %w", b.name, err)
	}
	b.head.Store(c)
	return c, nil
}

// MergeKind describes what a branch merge did.
type MergeKind int

const (
	UpToDate     MergeKind = iota // heads already equal, or nothing to merge
	AlreadyAhead                  // the other head is an ancestor of ours
	FastForward                   // our head was adopted from the other branch
	MergeCommit                   // a new two-parent commit was created
)

func (k MergeKind) String() string {
	switch k {
	case UpToDate:
		return "up-to-date"
	case AlreadyAhead:
		return "already-ahead"
	case FastForward:
		return "fast-forward"
	case MergeCommit:
		return "merge-commit"
	}
	return fmt.Sprintf("MergeKind(%d)", int(k))
}

// MergeResult reports the outcome of Branch.Merge. Base is the merge base,
// nil when no search was needed.
type MergeResult[V, M any] struct {
	Kind MergeKind
	Base *Commit[V, M]
	Head *Commit[V, M]
}

// MergeWith merges other into b and returns b's resulting head.
func (b *Branch[V, M]) MergeWith(other *Branch[V, M]) (*Commit[V, M], error) {
	res, err := b.Merge(other)
	if err != nil {
		return nil, err
	}
	return res.Head, nil
}

// Merge merges other into b. When one head contains the other no commit is
// made; otherwise the values at the merge base and both heads are merged by
// the repository handler into a commit whose parents are b's head then
// other's head. On error b is left unchanged.
//
// other's head is read once without taking its lock.
func (b *Branch[V, M]) Merge(other *Branch[V, M]) (*MergeResult[V, M], error) {
	if other == nil {
		return nil, fmt.Errorf("merge into %q: nil branch: %w", b.name, ErrInvalidArgument)
	}
	r := b.repo
	if other.repo != r {
		return nil, fmt.Errorf("merge %q into %q: branch belongs to another repository: %w", other.name, b.name, ErrInvalidArgument)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ours := b.head.Load()
	theirs := other.head.Load()
	switch {
	case theirs == nil || ours.Equal(theirs):
		r.logger.Debug("merge up to date", "branch", b.name, "from", other.name)
		return &MergeResult[V, M]{Kind: UpToDate, Head: ours}, nil
	case ours == nil:
		b.head.Store(theirs)
		r.logger.Debug("merge fast-forward", "branch", b.name, "from", other.name, "head", theirs.id)
		return &MergeResult[V, M]{Kind: FastForward, Head: theirs}, nil
	}

	base, err := r.FindMergeBase(ours, theirs)
	if err != nil {
		return nil, fmt.Errorf("merge %q into %q: %w", other.name, b.name, err)
	}
	switch {
	case base == nil:
		return nil, fmt.Errorf("merge %q into %q: %w", other.name, b.name, ErrUnrelatedHistories)
	case base.Equal(theirs):
		r.logger.Debug("merge already ahead", "branch", b.name, "from", other.name, "head", ours.id)
		return &MergeResult[V, M]{Kind: AlreadyAhead, Base: base, Head: ours}, nil
	case base.Equal(ours):
		b.head.Store(theirs)
		r.logger.Debug("merge fast-forward", "branch", b.name, "from", other.name, "head", theirs.id)
		return &MergeResult[V, M]{Kind: FastForward, Base: base, Head: theirs}, nil
	}

	if r.handler == nil {
		return nil, fmt.Errorf("merge %q into %q: no merge handler for value type: %w", other.name, b.name, ErrInvalidArgument)
	}
	value, err := r.handler.Merge(base.value, ours.value, theirs.value, r.policy)
	if err != nil {
		return nil, fmt.Errorf("merge %q into %q: %w", other.name, b.name, err)
	}
	encoded, err := r.encode(value)
	if err != nil {
		return nil, fmt.Errorf("merge %q into %q: %w", other.name, b.name, err)
	}
	var meta M
	if r.mergeMeta != nil {
		meta = r.mergeMeta(ours, theirs)
	}
	c, err := r.newCommit(value, encoded, meta, ours, theirs)
	if err != nil {
		return nil, fmt.Errorf("merge %q into %q: %w", other.name, b.name, err)
	}
	b.head.Store(c)
	r.logger.Debug("merge commit", "branch", b.name, "from", other.name, "base", base.id, "head", c.id)
	return &MergeResult[V, M]{Kind: MergeCommit, Base: base, Head: c}, nil
}
