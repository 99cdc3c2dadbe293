package repo

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/odvcencio/strand/pkg/object"
)

// CommitSigner signs canonical commit payload bytes and returns an encoded
// signature string to be kept on the commit.
type CommitSigner func(payload []byte) (string, error)

// Commit is an immutable version of a value. A commit has no parents (a
// root), one parent, or, for merge commits, the pre-merge head of the branch
// it was created on followed by the merged-in head.
//
// Identity is a content address over the encoded value, metadata and parent
// IDs, so two commits with equal value, metadata and ancestry share an ID.
type Commit[V, M any] struct {
	id         object.ID
	value      V
	meta       M
	parents    []*Commit[V, M]
	encoded    []byte
	payload    []byte
	generation uint64
	signature  string
}

// ID returns the content address of the commit.
func (c *Commit[V, M]) ID() object.ID { return c.id }

// Value returns the committed value.
func (c *Commit[V, M]) Value() V { return c.value }

// Meta returns the commit metadata.
func (c *Commit[V, M]) Meta() M { return c.meta }

// Parent returns the first parent, or nil for a root commit.
func (c *Commit[V, M]) Parent() *Commit[V, M] {
	if len(c.parents) == 0 {
		return nil
	}
	return c.parents[0]
}

// Parents returns all parents in order.
func (c *Commit[V, M]) Parents() []*Commit[V, M] {
	return append([]*Commit[V, M](nil), c.parents...)
}

// MergeParents returns the parents of a merge commit: the head of the branch
// the merge was made on, then the merged branch head. It is nil for ordinary
// commits.
func (c *Commit[V, M]) MergeParents() []*Commit[V, M] {
	if !c.IsMerge() {
		return nil
	}
	return c.Parents()
}

// IsMerge reports whether c has more than one parent.
func (c *Commit[V, M]) IsMerge() bool { return len(c.parents) > 1 }

// Generation is one more than the largest parent generation; roots are 1.
func (c *Commit[V, M]) Generation() uint64 { return c.generation }

// Signature returns the signer output, or "" for unsigned commits.
func (c *Commit[V, M]) Signature() string { return c.signature }

// Payload returns the canonical bytes the ID and signature are computed over.
func (c *Commit[V, M]) Payload() []byte { return bytes.Clone(c.payload) }

// Equal reports whether c and other have the same identity.
func (c *Commit[V, M]) Equal(other *Commit[V, M]) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.id == other.id
}

func (c *Commit[V, M]) String() string {
	if c == nil {
		return "<nil>"
	}
	return string(c.id)
}

// marshalCommit renders the canonical commit payload:
//
//	value <len>\n<bytes>\n
//	meta <len>\n<bytes>\n
//	parent <id>\n   (per parent, in order)
func marshalCommit(value, meta []byte, parents []object.ID) []byte {
	var buf bytes.Buffer
	buf.Grow(len(value) + len(meta) + 32 + 64*len(parents))
	writeField(&buf, "value", value)
	writeField(&buf, "meta", meta)
	for _, p := range parents {
		buf.WriteString("parent ")
		buf.WriteString(string(p))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func writeField(buf *bytes.Buffer, name string, data []byte) {
	buf.WriteString(name)
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(len(data)))
	buf.WriteByte('\n')
	buf.Write(data)
	buf.WriteByte('\n')
}

// newCommit builds, signs and archives a commit over an already encoded
// value.
func (r *Repository[V, M]) newCommit(value V, encoded []byte, meta M, parents ...*Commit[V, M]) (*Commit[V, M], error) {
	metaBytes, err := r.metaCodec.Encode(meta)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	ids := make([]object.ID, len(parents))
	var generation uint64
	for i, p := range parents {
		ids[i] = p.id
		generation = max(generation, p.generation)
	}

	payload := marshalCommit(encoded, metaBytes, ids)
	id, err := object.ComputeID(payload)
	if err != nil {
		return nil, err
	}
	c := &Commit[V, M]{
		id:         id,
		value:      value,
		meta:       meta,
		parents:    parents,
		encoded:    encoded,
		payload:    payload,
		generation: generation + 1,
	}

	if r.signer != nil {
		sig, err := r.signer(payload)
		if err != nil {
			return nil, fmt.Errorf("sign commit: %w", err)
		}
		c.signature = sig
	}

	if r.archive != nil {
		stored, err := r.archive.Add(payload)
		if err != nil {
			return nil, fmt.Errorf("archive commit %s: %w", id, err)
		}
		r.logger.Debug("commit archived", "commit", id, "object", stored)
	}
	return c, nil
}

// Log walks first parents from head, newest first. A limit of zero or less
// walks to the root.
func Log[V, M any](head *Commit[V, M], limit int) []*Commit[V, M] {
	var out []*Commit[V, M]
	for c := head; c != nil; c = c.Parent() {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, c)
	}
	return out
}
