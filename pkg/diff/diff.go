// Package diff computes character-level edit scripts between two texts and
// offers the cleanup passes and serializations built on top of them.
//
// All offsets and lengths exposed by this package count Unicode code points
// (runes), not bytes.
package diff

import (
	"strings"
	"time"
)

// Operation classifies one element of an edit script.
type Operation int8

const (
	Delete Operation = -1 // Text exists only in the source.
	Equal  Operation = 0  // Text is shared by source and target.
	Insert Operation = 1  // Text exists only in the target.
)

func (op Operation) String() string {
	switch op {
	case Delete:
		return "Delete"
	case Insert:
		return "Insert"
	case Equal:
		return "Equal"
	default:
		return "Unknown"
	}
}

// Diff is a single edit: an operation applied to a run of text.
type Diff struct {
	Type Operation
	Text string
}

// Options configures the diff engine.
type Options struct {
	// Timeout bounds the time spent searching for a minimal script. Zero
	// means no limit. When it expires the engine degrades to a valid but
	// non-minimal script instead of failing.
	Timeout time.Duration
	// EditCost is the cost of an empty edit operation in terms of edit
	// characters, used by CleanupEfficiency.
	EditCost int
}

// DefaultOptions returns the classic engine settings: one second timeout and
// an edit cost of four.
func DefaultOptions() Options {
	return Options{Timeout: time.Second, EditCost: 4}
}

// Deadline converts the timeout to an absolute deadline starting now. The
// zero time means no deadline.
func (o Options) Deadline() time.Time {
	if o.Timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(o.Timeout)
}

// Main computes the edit script transforming text1 into text2. When
// checkLines is true and both texts are long, a line-level pass runs first
// and its replacement blocks are refined character by character.
//
// Both texts must be valid UTF-8 (see ValidateText): an invalid byte reads
// as U+FFFD, so Text1 and Text2 would not rebuild it.
func Main(text1, text2 string, checkLines bool, opts Options) []Diff {
	return MainRunes([]rune(text1), []rune(text2), checkLines, opts.Deadline())
}

// Compute is Main with line mode enabled and default options.
func Compute(text1, text2 string) []Diff {
	return Main(text1, text2, true, DefaultOptions())
}

// MainRunes is Main over rune slices with an explicit deadline. The zero
// deadline disables the time limit.
func MainRunes(text1, text2 []rune, checkLines bool, deadline time.Time) []Diff {
	if runesEqual(text1, text2) {
		if len(text1) == 0 {
			return nil
		}
		return []Diff{{Equal, string(text1)}}
	}

	// The work stack holds pending sub-problems, ready output and merge
	// markers, in reverse order of emission. Every sub-problem writes a
	// contiguous run of out, which its marker normalizes once complete.
	var out []Diff
	stack := []job{{a: text1, b: text2, lines: checkLines}}
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch {
		case j.ready:
			out = append(out, j.diffs...)
		case j.merge:
			merged := CleanupMerge(Clone(out[j.start:]))
			out = append(out[:j.start], merged...)
		default:
			stack = append(stack, job{merge: true, start: len(out)})
			stack = expand(stack, j, deadline)
		}
	}
	return out
}

type job struct {
	a, b  []rune
	lines bool

	ready bool
	diffs []Diff

	merge bool
	start int
}

func emit(diffs ...Diff) job {
	return job{ready: true, diffs: diffs}
}

// expand strips the common affixes of j and pushes whatever remains onto
// the stack, last piece first.
func expand(stack []job, j job, deadline time.Time) []job {
	a, b := j.a, j.b
	if runesEqual(a, b) {
		if len(a) > 0 {
			stack = append(stack, emit(Diff{Equal, string(a)}))
		}
		return stack
	}

	n := commonPrefixRunes(a, b)
	prefix := a[:n]
	a, b = a[n:], b[n:]

	n = commonSuffixRunes(a, b)
	suffix := a[len(a)-n:]
	a, b = a[:len(a)-n], b[:len(b)-n]

	if len(suffix) > 0 {
		stack = append(stack, emit(Diff{Equal, string(suffix)}))
	}
	diffs, subs := compute(a, b, j.lines, deadline)
	if diffs != nil {
		stack = append(stack, emit(diffs...))
	}
	for i := len(subs) - 1; i >= 0; i-- {
		stack = append(stack, subs[i])
	}
	if len(prefix) > 0 {
		stack = append(stack, emit(Diff{Equal, string(prefix)}))
	}
	return stack
}

// compute handles texts that share no common prefix or suffix. It either
// answers directly or splits the problem into ordered sub-jobs.
func compute(a, b []rune, lines bool, deadline time.Time) ([]Diff, []job) {
	if len(a) == 0 {
		return []Diff{{Insert, string(b)}}, nil
	}
	if len(b) == 0 {
		return []Diff{{Delete, string(a)}}, nil
	}

	long, short := a, b
	if len(a) < len(b) {
		long, short = b, a
	}
	if i := indexRunes(long, short, 0); i != -1 {
		op := Insert
		if len(a) > len(b) {
			op = Delete
		}
		return []Diff{
			{op, string(long[:i])},
			{Equal, string(short)},
			{op, string(long[i+len(short):])},
		}, nil
	}

	if len(short) == 1 {
		// After the substring check a single rune cannot be an equality.
		return []Diff{{Delete, string(a)}, {Insert, string(b)}}, nil
	}

	if hm := halfMatch(a, b, !deadline.IsZero()); hm != nil {
		return nil, []job{
			{a: hm.a1, b: hm.b1, lines: lines},
			emit(Diff{Equal, string(hm.common)}),
			{a: hm.a2, b: hm.b2, lines: lines},
		}
	}

	if lines && len(a) > 100 && len(b) > 100 {
		return lineMode(a, b, deadline), nil
	}

	return bisect(a, b, deadline)
}

// Text1 reconstructs the source text of an edit script.
func Text1(diffs []Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		if d.Type != Insert {
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// Text2 reconstructs the target text of an edit script.
func Text2(diffs []Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		if d.Type != Delete {
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// Clone returns a copy of diffs that shares no backing array with it.
func Clone(diffs []Diff) []Diff {
	if diffs == nil {
		return nil
	}
	out := make([]Diff, len(diffs))
	copy(out, diffs)
	return out
}
