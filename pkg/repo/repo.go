// Package repo keeps successive versions of a value under named branches
// and merges diverged branches through a merge.Handler.
package repo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/odvcencio/strand/pkg/diff"
	"github.com/odvcencio/strand/pkg/merge"
	"github.com/odvcencio/strand/pkg/object"
)

// DefaultBranch is the branch a new Repository starts on.
const DefaultBranch = "master"

const defaultMergeBaseCacheSize = 1024

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrBranchExists    = errors.New("branch already exists")
	ErrBranchNotFound  = errors.New("branch not found")
	ErrEmptyBranch     = errors.New("branch has no commits")
	ErrCurrentBranch   = errors.New("branch is current")

	// ErrUnrelatedHistories is returned when two heads share no ancestor.
	ErrUnrelatedHistories = fmt.Errorf("unrelated histories: %w", merge.ErrConflict)
)

// Repository maps branch names to branches over one commit graph. Branches
// lock independently; the repository lock only guards the branch table.
type Repository[V, M any] struct {
	mu       sync.RWMutex
	branches map[string]*Branch[V, M]
	current  string

	handler   merge.Handler[V]
	policy    merge.Policy
	codec     object.Codec[V]
	metaCodec object.Codec[M]
	equal     func(a, b V) bool
	signer    CommitSigner
	archive   object.Storage[[]byte]
	mergeMeta func(ours, theirs *Commit[V, M]) M
	logger    *slog.Logger

	defaultBranch string
	cacheSize     int
	bases         *mergeBaseCache[V, M]
}

// Option configures a Repository.
type Option[V, M any] func(*Repository[V, M])

// WithPolicy sets the conflict policy passed to the merge handler.
func WithPolicy[V, M any](p merge.Policy) Option[V, M] {
	return func(r *Repository[V, M]) { r.policy = p }
}

// WithHandler sets the three-way merge for values. String repositories
// default to merge.StringHandler; other value types must set one before
// merging diverged branches.
func WithHandler[V, M any](h merge.Handler[V]) Option[V, M] {
	return func(r *Repository[V, M]) { r.handler = h }
}

// WithCodec sets the value encoding used for commit identity. The default
// is object.JSONCodec.
func WithCodec[V, M any](c object.Codec[V]) Option[V, M] {
	return func(r *Repository[V, M]) { r.codec = c }
}

// WithMetaCodec sets the metadata encoding used for commit identity.
func WithMetaCodec[V, M any](c object.Codec[M]) Option[V, M] {
	return func(r *Repository[V, M]) { r.metaCodec = c }
}

// WithEqual sets the value equality used to skip duplicate commits. The
// default compares encoded values.
func WithEqual[V, M any](equal func(a, b V) bool) Option[V, M] {
	return func(r *Repository[V, M]) { r.equal = equal }
}

// WithSigner signs every new commit payload.
func WithSigner[V, M any](s CommitSigner) Option[V, M] {
	return func(r *Repository[V, M]) { r.signer = s }
}

// WithArchive stores every new commit payload in s. Over a content-addressed
// store the object ID equals the commit ID.
func WithArchive[V, M any](s object.Storage[[]byte]) Option[V, M] {
	return func(r *Repository[V, M]) { r.archive = s }
}

// WithMergeMeta derives the metadata of merge commits. Without it merge
// commits carry the zero M.
func WithMergeMeta[V, M any](f func(ours, theirs *Commit[V, M]) M) Option[V, M] {
	return func(r *Repository[V, M]) { r.mergeMeta = f }
}

// WithLogger sets the logger for merge decisions.
func WithLogger[V, M any](l *slog.Logger) Option[V, M] {
	return func(r *Repository[V, M]) { r.logger = l }
}

// WithMergeBaseCacheSize bounds the merge-base memo. Zero disables it.
func WithMergeBaseCacheSize[V, M any](n int) Option[V, M] {
	return func(r *Repository[V, M]) { r.cacheSize = n }
}

// WithDefaultBranch names the initial branch.
func WithDefaultBranch[V, M any](name string) Option[V, M] {
	return func(r *Repository[V, M]) { r.defaultBranch = name }
}

// New returns a Repository holding one empty branch.
func New[V, M any](opts ...Option[V, M]) (*Repository[V, M], error) {
	r := &Repository[V, M]{
		branches:      make(map[string]*Branch[V, M]),
		codec:         object.JSONCodec[V]{},
		metaCodec:     object.JSONCodec[M]{},
		defaultBranch: DefaultBranch,
		cacheSize:     defaultMergeBaseCacheSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.defaultBranch == "" {
		return nil, fmt.Errorf("new repository: empty default branch name: %w", ErrInvalidArgument)
	}
	if r.cacheSize < 0 {
		return nil, fmt.Errorf("new repository: negative merge-base cache size %d: %w", r.cacheSize, ErrInvalidArgument)
	}
	if r.codec == nil || r.metaCodec == nil {
		return nil, fmt.Errorf("new repository: nil codec: %w", ErrInvalidArgument)
	}
	if r.handler == nil {
		r.handler = defaultHandler[V]()
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	bases, err := newMergeBaseCache[V, M](r.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("new repository: %w", err)
	}
	r.bases = bases

	r.branches[r.defaultBranch] = &Branch[V, M]{name: r.defaultBranch, repo: r}
	r.current = r.defaultBranch
	return r, nil
}

func defaultHandler[V any]() merge.Handler[V] {
	if h, ok := any(merge.StringHandler(diff.DefaultOptions())).(merge.Handler[V]); ok {
		return h
	}
	return nil
}

// Current returns the checked-out branch.
func (r *Repository[V, M]) Current() *Branch[V, M] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.branches[r.current]
}

// Branch looks up a branch by name.
func (r *Repository[V, M]) Branch(name string) (*Branch[V, M], error) {
	r.mu.RLock()
	b, ok := r.branches[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("branch %q: %w", name, ErrBranchNotFound)
	}
	return b, nil
}

// Branches returns the branch names sorted alphabetically.
func (r *Repository[V, M]) Branches() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.branches))
	for name := range r.branches {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Checkout makes the named branch current.
func (r *Repository[V, M]) Checkout(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.branches[name]; !ok {
		return fmt.Errorf("checkout: branch %q: %w", name, ErrBranchNotFound)
	}
	r.current = name
	return nil
}

// CreateBranch creates a branch at the current branch head. The current
// branch must have at least one commit and the name must be unused.
func (r *Repository[V, M]) CreateBranch(name string) (*Branch[V, M], error) {
	if name == "" {
		return nil, fmt.Errorf("create branch: empty name: %w", ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.branches[name]; ok {
		return nil, fmt.Errorf("create branch: %q: %w", name, ErrBranchExists)
	}
	head := r.branches[r.current].Head()
	if head == nil {
		return nil, fmt.Errorf("create branch %q from %q: %w", name, r.current, ErrEmptyBranch)
	}
	b := &Branch[V, M]{name: name, repo: r}
	b.head.Store(head)
	r.branches[name] = b
	return b, nil
}

// DeleteBranch removes a branch other than the current one.
func (r *Repository[V, M]) DeleteBranch(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == r.current {
		return fmt.Errorf("delete branch: %q: %w", name, ErrCurrentBranch)
	}
	if _, ok := r.branches[name]; !ok {
		return fmt.Errorf("delete branch: %q: %w", name, ErrBranchNotFound)
	}
	delete(r.branches, name)
	return nil
}

// Commit commits on the current branch.
func (r *Repository[V, M]) Commit(value V, meta M) (*Commit[V, M], error) {
	return r.Current().Commit(value, meta)
}

func (r *Repository[V, M]) encode(value V) ([]byte, error) {
	data, err := r.codec.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return data, nil
}

func (r *Repository[V, M]) sameValue(head *Commit[V, M], value V, encoded []byte) bool {
	if r.equal != nil {
		return r.equal(head.value, value)
	}
	return bytes.Equal(head.encoded, encoded)
}
