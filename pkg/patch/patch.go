// Package patch builds context-carrying hunks from edit scripts and applies
// them to texts that may have drifted since the hunks were made.
//
// Offsets and lengths count Unicode code points (runes).
package patch

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/odvcencio/strand/pkg/diff"
	"github.com/odvcencio/strand/pkg/match"
)

// Patch is one hunk: an edit script together with where it starts and how
// much text it spans before (1) and after (2) application.
type Patch struct {
	Diffs   []diff.Diff
	Start1  int
	Start2  int
	Length1 int
	Length2 int
}

// Options configures patch construction and application.
type Options struct {
	// Margin is the number of context runes kept around each hunk.
	Margin int
	// DeleteThreshold is the largest error ratio tolerated when a long
	// hunk's old text does not match the target exactly.
	DeleteThreshold float64
	Diff            diff.Options
	Match           match.Options
}

// DefaultOptions returns margin 4 and delete threshold 0.5 over the diff and
// match defaults.
func DefaultOptions() Options {
	return Options{
		Margin:          4,
		DeleteThreshold: 0.5,
		Diff:            diff.DefaultOptions(),
		Match:           match.DefaultOptions(),
	}
}

// String renders the hunk in the GNU-diff-like text form used by ToText.
// Header coordinates are 1-based.
func (p Patch) String() string {
	var b strings.Builder
	b.WriteString("@@ -")
	b.WriteString(coords(p.Start1, p.Length1))
	b.WriteString(" +")
	b.WriteString(coords(p.Start2, p.Length2))
	b.WriteString(" @@\n")
	for _, d := range p.Diffs {
		switch d.Type {
		case diff.Insert:
			b.WriteByte('+')
		case diff.Delete:
			b.WriteByte('-')
		case diff.Equal:
			b.WriteByte(' ')
		}
		b.WriteString(diff.EscapeText(d.Text))
		b.WriteByte('\n')
	}
	return b.String()
}

func coords(start, length int) string {
	switch length {
	case 0:
		return strconv.Itoa(start) + ",0"
	case 1:
		return strconv.Itoa(start + 1)
	default:
		return strconv.Itoa(start+1) + "," + strconv.Itoa(length)
	}
}

// DeepCopy returns patches with their edit scripts copied.
func DeepCopy(patches []Patch) []Patch {
	if patches == nil {
		return nil
	}
	out := make([]Patch, len(patches))
	for i, p := range patches {
		out[i] = p
		out[i].Diffs = diff.Clone(p.Diffs)
	}
	return out
}

// MakeFromTexts diffs text1 against text2 and turns the result into
// patches. Scripts with more than two elements are cleaned up semantically
// and for efficiency first. Like diff.Main it expects valid UTF-8.
func MakeFromTexts(text1, text2 string, opts Options) []Patch {
	diffs := diff.Main(text1, text2, true, opts.Diff)
	if len(diffs) > 2 {
		diffs = diff.CleanupSemantic(diffs)
		diffs = diff.CleanupEfficiency(diffs, opts.Diff.EditCost)
	}
	return Make(text1, diffs, opts)
}

// MakeFromDiffs builds patches from a script alone; the source text is
// recovered from it.
func MakeFromDiffs(diffs []diff.Diff, opts Options) []Patch {
	return Make(diff.Text1(diffs), diffs, opts)
}

// Make builds patches that turn text1 into the target of diffs. A new hunk
// starts after any equality of at least twice the margin.
func Make(text1 string, diffs []diff.Diff, opts Options) []Patch {
	if len(diffs) == 0 {
		return nil
	}
	var patches []Patch
	var p Patch
	count1, count2 := 0, 0
	// prepatch is the text as it stood before the current hunk; postpatch
	// has every hunk so far applied.
	prepatch := []rune(text1)
	postpatch := prepatch

	for i, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		if len(p.Diffs) == 0 && d.Type != diff.Equal {
			// A new patch starts here.
			p.Start1 = count1
			p.Start2 = count2
		}

		switch d.Type {
		case diff.Insert:
			p.Diffs = append(p.Diffs, d)
			p.Length2 += n
			postpatch = concat(postpatch[:count2], []rune(d.Text), postpatch[count2:])
		case diff.Delete:
			p.Length1 += n
			p.Diffs = append(p.Diffs, d)
			postpatch = concat(postpatch[:count2], postpatch[count2+n:])
		case diff.Equal:
			if n <= 2*opts.Margin && len(p.Diffs) > 0 && i != len(diffs)-1 {
				// Small equality inside a patch.
				p.Diffs = append(p.Diffs, d)
				p.Length1 += n
				p.Length2 += n
			} else if n >= 2*opts.Margin && len(p.Diffs) > 0 {
				// Time for a new patch.
				addContext(&p, prepatch, opts)
				patches = append(patches, p)
				p = Patch{}
				// The prepatch text of the next hunk is this one's result.
				prepatch = postpatch
				count1 = count2
			}
		}

		if d.Type != diff.Insert {
			count1 += n
		}
		if d.Type != diff.Delete {
			count2 += n
		}
	}
	// Pick up the leftover patch if not empty.
	if len(p.Diffs) > 0 {
		addContext(&p, prepatch, opts)
		patches = append(patches, p)
	}
	return patches
}

// addContext grows p's surrounding equalities until its pattern occurs only
// once in text, or the pattern would no longer fit the matcher.
func addContext(p *Patch, text []rune, opts Options) {
	if len(text) == 0 {
		return
	}
	bits := opts.Match.PatternBits()
	pattern := substring(text, p.Start2, p.Start2+p.Length1)
	padding := 0
	for diff.IndexRunes(text, pattern, 0) != diff.LastIndexRunes(text, pattern, len(text)) &&
		len(pattern) < bits-2*opts.Margin {
		padding += opts.Margin
		pattern = substring(text, p.Start2-padding, p.Start2+p.Length1+padding)
	}
	// Add one chunk for good luck.
	padding += opts.Margin

	prefix := substring(text, p.Start2-padding, p.Start2)
	if len(prefix) > 0 {
		p.Diffs = append([]diff.Diff{{Type: diff.Equal, Text: string(prefix)}}, p.Diffs...)
	}
	suffix := substring(text, p.Start2+p.Length1, p.Start2+p.Length1+padding)
	if len(suffix) > 0 {
		p.Diffs = append(p.Diffs, diff.Diff{Type: diff.Equal, Text: string(suffix)})
	}

	p.Start1 -= len(prefix)
	p.Start2 -= len(prefix)
	p.Length1 += len(prefix) + len(suffix)
	p.Length2 += len(prefix) + len(suffix)
}

// substring returns text[from:to] with both bounds clamped to the text.
func substring(text []rune, from, to int) []rune {
	from = max(0, min(from, len(text)))
	to = max(0, min(to, len(text)))
	if from >= to {
		return nil
	}
	return text[from:to]
}

func concat(parts ...[]rune) []rune {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]rune, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// nullPadding is the run of low control runes framing text during Apply.
func nullPadding(margin int) string {
	r := make([]rune, margin)
	for i := range r {
		r[i] = rune(i + 1)
	}
	return string(r)
}

// AddPadding shifts patches right by the margin and extends the first and
// last hunks with padding so edits at the edges of the text can be matched.
// It returns the padding string, which the caller must add to both ends of
// the text.
func AddPadding(patches []Patch, opts Options) string {
	padding := nullPadding(opts.Margin)
	pl := opts.Margin
	if len(patches) == 0 {
		return padding
	}
	for i := range patches {
		patches[i].Start1 += pl
		patches[i].Start2 += pl
	}

	// Add some padding on start of first diff.
	first := &patches[0]
	if len(first.Diffs) == 0 || first.Diffs[0].Type != diff.Equal {
		first.Diffs = append([]diff.Diff{{Type: diff.Equal, Text: padding}}, first.Diffs...)
		first.Start1 -= pl
		first.Start2 -= pl
		first.Length1 += pl
		first.Length2 += pl
	} else if n := utf8.RuneCountInString(first.Diffs[0].Text); pl > n {
		// Grow first equality.
		extra := pl - n
		first.Diffs[0].Text = string([]rune(padding)[n:]) + first.Diffs[0].Text
		first.Start1 -= extra
		first.Start2 -= extra
		first.Length1 += extra
		first.Length2 += extra
	}

	// Add some padding on end of last diff.
	last := &patches[len(patches)-1]
	if len(last.Diffs) == 0 || last.Diffs[len(last.Diffs)-1].Type != diff.Equal {
		last.Diffs = append(last.Diffs, diff.Diff{Type: diff.Equal, Text: padding})
		last.Length1 += pl
		last.Length2 += pl
	} else if n := utf8.RuneCountInString(last.Diffs[len(last.Diffs)-1].Text); pl > n {
		// Grow last equality.
		extra := pl - n
		last.Diffs[len(last.Diffs)-1].Text += string([]rune(padding)[:extra])
		last.Length1 += extra
		last.Length2 += extra
	}
	return padding
}

// SplitMax breaks up hunks whose old text is longer than the matcher can
// search for, carrying margin-sized context across each cut.
func SplitMax(patches []Patch, opts Options) []Patch {
	out, _ := splitMax(patches, nil, opts)
	return out
}

// splitMax is SplitMax that also tracks, for every output hunk, the index
// of the input hunk it came from.
func splitMax(patches []Patch, origin []int, opts Options) ([]Patch, []int) {
	size := opts.Match.PatternBits()
	// Every chunk must take at least one rune past its context.
	margin := max(0, min(opts.Margin, (size-1)/2))
	var out []Patch
	var outOrigin []int
	for x, big := range patches {
		o := x
		if origin != nil {
			o = origin[x]
		}
		if big.Length1 <= size {
			out = append(out, big)
			outOrigin = append(outOrigin, o)
			continue
		}

		rest := diff.Clone(big.Diffs)
		start1, start2 := big.Start1, big.Start2
		var precontext []rune
		for len(rest) > 0 {
			p := Patch{
				Start1: start1 - len(precontext),
				Start2: start2 - len(precontext),
			}
			empty := true
			if len(precontext) > 0 {
				p.Length1 = len(precontext)
				p.Length2 = len(precontext)
				p.Diffs = append(p.Diffs, diff.Diff{Type: diff.Equal, Text: string(precontext)})
			}
			for len(rest) > 0 && p.Length1 < size-margin {
				d := rest[0]
				n := utf8.RuneCountInString(d.Text)
				switch {
				case d.Type == diff.Insert:
					// Insertions are harmless.
					p.Length2 += n
					start2 += n
					p.Diffs = append(p.Diffs, d)
					rest = rest[1:]
					empty = false
				case d.Type == diff.Delete && len(p.Diffs) == 1 && p.Diffs[0].Type == diff.Equal && n > 2*size:
					// This is a large deletion. Let it pass in one chunk.
					p.Length1 += n
					start1 += n
					empty = false
					p.Diffs = append(p.Diffs, d)
					rest = rest[1:]
				default:
					// Deletion or equality. Only take as much as we can
					// stomach.
					runes := []rune(d.Text)
					take := runes[:min(len(runes), size-p.Length1-margin)]
					p.Length1 += len(take)
					start1 += len(take)
					if d.Type == diff.Equal {
						p.Length2 += len(take)
						start2 += len(take)
					} else {
						empty = false
					}
					p.Diffs = append(p.Diffs, diff.Diff{Type: d.Type, Text: string(take)})
					if len(take) == len(runes) {
						rest = rest[1:]
					} else {
						rest[0].Text = string(runes[len(take):])
					}
				}
			}
			// Compute the head context for the next patch.
			text2 := []rune(diff.Text2(p.Diffs))
			precontext = text2[max(0, len(text2)-margin):]
			// Append the end context for this patch.
			text1 := []rune(diff.Text1(rest))
			postcontext := text1[:min(len(text1), margin)]
			if len(postcontext) > 0 {
				p.Length1 += len(postcontext)
				p.Length2 += len(postcontext)
				if n := len(p.Diffs); n > 0 && p.Diffs[n-1].Type == diff.Equal {
					p.Diffs[n-1].Text += string(postcontext)
				} else {
					p.Diffs = append(p.Diffs, diff.Diff{Type: diff.Equal, Text: string(postcontext)})
				}
			}
			if !empty {
				out = append(out, p)
				outOrigin = append(outOrigin, o)
			}
		}
	}
	return out, outOrigin
}
