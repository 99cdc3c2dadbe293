package patch

import (
	"github.com/odvcencio/strand/pkg/diff"
	"github.com/odvcencio/strand/pkg/match"
)

// Apply applies patches to text and returns the patched text along with one
// flag per input patch reporting whether it applied. A patch that had to be
// split is reported as applied only if every piece applied. Failed hunks
// leave the text untouched and the rest still run. The input patches are not
// modified. text must be valid UTF-8.
func Apply(patches []Patch, text string, opts Options) (string, []bool) {
	if len(patches) == 0 {
		return text, nil
	}
	work := DeepCopy(patches)
	padding := AddPadding(work, opts)
	src := []rune(padding + text + padding)
	work, origin := splitMax(work, nil, opts)

	applied := make([]bool, len(patches))
	for i := range applied {
		applied[i] = true
	}

	bits := opts.Match.PatternBits()
	// delta tracks the offset between the expected and actual location of
	// the previous patch. If there are patches expected at positions 10 and
	// 20, but the first was found at 12, delta is 2 and the second patch
	// has an effective expected position of 22.
	delta := 0
	for x, p := range work {
		expected := p.Start2 + delta
		text1 := []rune(diff.Text1(p.Diffs))
		startLoc, endLoc := -1, -1
		if len(text1) > bits {
			// Oversized hunks only come from monster deletes; match their
			// head and tail separately.
			startLoc = match.LocateRunes(src, text1[:bits], expected, opts.Match)
			if startLoc != -1 {
				endLoc = match.LocateRunes(src, text1[len(text1)-bits:], expected+len(text1)-bits, opts.Match)
				if endLoc == -1 || startLoc >= endLoc {
					// Can't find valid trailing context. Drop this patch.
					startLoc = -1
				}
			}
		} else {
			startLoc = match.LocateRunes(src, text1, expected, opts.Match)
		}

		if startLoc == -1 {
			// No match found.
			applied[origin[x]] = false
			// Subtract the delta for this failed patch from subsequent
			// patches.
			delta -= p.Length2 - p.Length1
			continue
		}

		delta = startLoc - expected
		var text2 []rune
		if endLoc == -1 {
			text2 = substring(src, startLoc, startLoc+len(text1))
		} else {
			text2 = substring(src, startLoc, endLoc+bits)
		}

		if runesEqual(text1, text2) {
			// Perfect match, just shove the replacement text in.
			src = concat(src[:startLoc], []rune(diff.Text2(p.Diffs)), src[startLoc+len(text1):])
			continue
		}

		// Imperfect match. Run a diff to get a framework of equivalent
		// indices.
		diffs := diff.MainRunes(text1, text2, false, opts.Diff.Deadline())
		if len(text1) > bits && float64(diff.Levenshtein(diffs))/float64(len(text1)) > opts.DeleteThreshold {
			// The end points match, but the content is unacceptably bad.
			applied[origin[x]] = false
			continue
		}
		diffs = diff.CleanupSemanticLossless(diffs)
		index1 := 0
		for _, mod := range p.Diffs {
			n := len([]rune(mod.Text))
			var index2 int
			if mod.Type != diff.Equal {
				index2 = diff.XIndex(diffs, index1)
			}
			switch mod.Type {
			case diff.Insert:
				at := startLoc + index2
				src = concat(src[:at], []rune(mod.Text), src[at:])
			case diff.Delete:
				from := startLoc + index2
				to := startLoc + diff.XIndex(diffs, index1+n)
				src = concat(src[:from], src[to:])
			}
			if mod.Type != diff.Delete {
				index1 += n
			}
		}
	}

	// Strip the padding off.
	pl := len([]rune(padding))
	return string(src[pl : len(src)-pl]), applied
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
