// Package merge combines two divergent versions of a value given their
// common origin. Scalars, dictionaries and strings each have a three-way
// merge; genuine conflicts are settled by a caller-chosen Policy.
package merge

import (
	"fmt"
	"strings"
)

// Policy decides irreconcilable differences between left and right.
type Policy int

const (
	// RaiseConflict fails the merge with a *ConflictError listing every
	// conflict.
	RaiseConflict Policy = iota
	// TakeLeft resolves every conflict in favour of the left side.
	TakeLeft
	// TakeRight resolves every conflict in favour of the right side.
	TakeRight
	// PreferCheaper keeps the side whose whole edit is smaller. Only text
	// merges can measure edits; other merges treat it as TakeLeft.
	PreferCheaper
)

func (p Policy) String() string {
	switch p {
	case RaiseConflict:
		return "raise"
	case TakeLeft:
		return "left"
	case TakeRight:
		return "right"
	case PreferCheaper:
		return "cheaper"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts the names printed by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raise", "":
		return RaiseConflict, nil
	case "left":
		return TakeLeft, nil
	case "right":
		return TakeRight, nil
	case "cheaper":
		return PreferCheaper, nil
	}
	return RaiseConflict, fmt.Errorf("unknown merge policy %q (want raise, left, right or cheaper)", s)
}
