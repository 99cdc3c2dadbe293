// Package object holds the persistence seam of the engine: a small
// Storage contract, an in-memory implementation keyed by random ids, and a
// content-addressed on-disk store.
package object

import "errors"

// ID identifies a stored value. Content-addressed stores use the base32
// text form of a CIDv1; MemoryStorage uses random UUIDs.
type ID string

func (id ID) String() string { return string(id) }

// ErrNotFound is returned when a storage has no value for an ID.
var ErrNotFound = errors.New("object not found")

// Storage persists values by identity. Implementations must be safe for
// concurrent use.
type Storage[V any] interface {
	Add(v V) (ID, error)
	Remove(id ID) error
	Get(id ID) (V, error)
	Contains(id ID) bool
	Count() (int, error)
}
