package merge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConflict is the error kind of every failed merge.
var ErrConflict = errors.New("merge conflict")

// ConflictKind says how the two sides disagree.
type ConflictKind int

const (
	ModifyModify ConflictKind = iota // both sides changed the value differently
	AddAdd                           // both sides added the key with different values
	DeleteModify                     // left deleted, right modified
	ModifyDelete                     // left modified, right deleted
	InsertInsert                     // both sides inserted different text at one position
)

func (k ConflictKind) String() string {
	switch k {
	case ModifyModify:
		return "modify/modify"
	case AddAdd:
		return "add/add"
	case DeleteModify:
		return "delete/modify"
	case ModifyDelete:
		return "modify/delete"
	case InsertInsert:
		return "insert/insert"
	}
	return fmt.Sprintf("ConflictKind(%d)", int(k))
}

// Conflict records one irreconcilable difference. Key is the dictionary
// key, the rune offset in the origin text for string merges, or the origin
// line index for line merges; it is nil for scalar values. Missing sides are nil.
type Conflict struct {
	Key    any
	Kind   ConflictKind
	Origin any
	Left   any
	Right  any
}

func (c Conflict) String() string {
	if c.Key == nil {
		return c.Kind.String()
	}
	return fmt.Sprintf("%v: %s", c.Key, c.Kind)
}

// ConflictError reports all conflicts of a merge run under RaiseConflict.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 1 {
		return "merge conflict: " + e.Conflicts[0].String()
	}
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = c.String()
	}
	return fmt.Sprintf("merge conflict: %d conflicts (%s)", len(e.Conflicts), strings.Join(parts, ", "))
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
