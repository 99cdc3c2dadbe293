package diff

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// The cleanup passes take ownership of the slice they are given and return
// the rewritten script. Callers that need the original should Clone first.

func insertDiffs(diffs []Diff, at int, items ...Diff) []Diff {
	return append(diffs[:at], append(append([]Diff(nil), items...), diffs[at:]...)...)
}

func removeDiffs(diffs []Diff, at, n int) []Diff {
	return append(diffs[:at], diffs[at+n:]...)
}

// CleanupMerge reorders and merges like edit sections and merges equalities.
// Any edit section can move as long as it doesn't cross an equality.
func CleanupMerge(diffs []Diff) []Diff {
	for {
		var changed bool
		diffs, changed = cleanupMergePass(diffs)
		if !changed {
			return diffs
		}
	}
}

func cleanupMergePass(diffs []Diff) ([]Diff, bool) {
	if len(diffs) == 0 {
		return diffs, false
	}
	// Sentinel equality flushes the final run of edits.
	diffs = append(diffs, Diff{Equal, ""})
	pointer := 0
	countDelete, countInsert := 0, 0
	var textDelete, textInsert string

	for pointer < len(diffs) {
		switch diffs[pointer].Type {
		case Insert:
			countInsert++
			textInsert += diffs[pointer].Text
			pointer++
		case Delete:
			countDelete++
			textDelete += diffs[pointer].Text
			pointer++
		case Equal:
			if countDelete+countInsert > 1 {
				if countDelete != 0 && countInsert != 0 {
					// Factor out any common prefix.
					if n := commonPrefixBytes(textInsert, textDelete); n != 0 {
						x := pointer - countDelete - countInsert
						if x > 0 && diffs[x-1].Type == Equal {
							diffs[x-1].Text += textInsert[:n]
						} else {
							diffs = insertDiffs(diffs, 0, Diff{Equal, textInsert[:n]})
							pointer++
						}
						textInsert = textInsert[n:]
						textDelete = textDelete[n:]
					}
					// Factor out any common suffix.
					if n := commonSuffixBytes(textInsert, textDelete); n != 0 {
						diffs[pointer].Text = textInsert[len(textInsert)-n:] + diffs[pointer].Text
						textInsert = textInsert[:len(textInsert)-n]
						textDelete = textDelete[:len(textDelete)-n]
					}
				}
				// Replace the offending records with the merged ones.
				pointer -= countDelete + countInsert
				diffs = removeDiffs(diffs, pointer, countDelete+countInsert)
				if len(textDelete) > 0 {
					diffs = insertDiffs(diffs, pointer, Diff{Delete, textDelete})
					pointer++
				}
				if len(textInsert) > 0 {
					diffs = insertDiffs(diffs, pointer, Diff{Insert, textInsert})
					pointer++
				}
				pointer++
			} else if pointer != 0 && diffs[pointer-1].Type == Equal {
				// Merge this equality with the previous one.
				diffs[pointer-1].Text += diffs[pointer].Text
				diffs = removeDiffs(diffs, pointer, 1)
			} else {
				pointer++
			}
			countInsert, countDelete = 0, 0
			textDelete, textInsert = "", ""
		}
	}
	if diffs[len(diffs)-1].Text == "" {
		diffs = diffs[:len(diffs)-1]
	}
	diffs, dropped := dropEmptyEdits(diffs)

	// Second pass: look for single edits surrounded on both sides by
	// equalities which can be shifted sideways to eliminate an equality,
	// e.g. A<ins>BA</ins>C -> <ins>AB</ins>AC.
	changes := dropped
	for pointer = 1; pointer < len(diffs)-1; pointer++ {
		prev, cur, next := diffs[pointer-1], diffs[pointer], diffs[pointer+1]
		if prev.Type != Equal || next.Type != Equal {
			continue
		}
		switch {
		case strings.HasSuffix(cur.Text, prev.Text):
			// Shift the edit over the previous equality.
			diffs[pointer].Text = prev.Text + cur.Text[:len(cur.Text)-len(prev.Text)]
			diffs[pointer+1].Text = prev.Text + next.Text
			diffs = removeDiffs(diffs, pointer-1, 1)
			changes = true
		case strings.HasPrefix(cur.Text, next.Text):
			// Shift the edit over the next equality.
			diffs[pointer-1].Text += next.Text
			diffs[pointer].Text = cur.Text[len(next.Text):] + next.Text
			diffs = removeDiffs(diffs, pointer+1, 1)
			changes = true
		}
	}
	return diffs, changes
}

// dropEmptyEdits removes insertions and deletions with no text. Equalities
// are left for the merge pass.
func dropEmptyEdits(diffs []Diff) ([]Diff, bool) {
	out := diffs[:0]
	for _, d := range diffs {
		if d.Type != Equal && d.Text == "" {
			continue
		}
		out = append(out, d)
	}
	return out, len(out) != len(diffs)
}

// CleanupSemantic reduces the number of edits by eliminating semantically
// trivial equalities.
func CleanupSemantic(diffs []Diff) []Diff {
	changes := false
	var equalities []int // indices of candidate equalities
	lastEquality := ""
	pointer := 0
	// Edit lengths before and after the last equality.
	lengthInsertions1, lengthDeletions1 := 0, 0
	lengthInsertions2, lengthDeletions2 := 0, 0

	for pointer < len(diffs) {
		d := diffs[pointer]
		if d.Type == Equal {
			equalities = append(equalities, pointer)
			lengthInsertions1, lengthDeletions1 = lengthInsertions2, lengthDeletions2
			lengthInsertions2, lengthDeletions2 = 0, 0
			lastEquality = d.Text
		} else {
			if d.Type == Insert {
				lengthInsertions2 += runeLen(d.Text)
			} else {
				lengthDeletions2 += runeLen(d.Text)
			}
			// An equality smaller than the edits on both sides of it is
			// absorbed into them.
			eqLen := runeLen(lastEquality)
			if lastEquality != "" &&
				eqLen <= max(lengthInsertions1, lengthDeletions1) &&
				eqLen <= max(lengthInsertions2, lengthDeletions2) {
				at := equalities[len(equalities)-1]
				diffs = insertDiffs(diffs, at, Diff{Delete, lastEquality})
				diffs[at+1].Type = Insert
				// Discard the equality just removed and the one before it,
				// which needs to be re-evaluated.
				equalities = equalities[:len(equalities)-1]
				if len(equalities) > 0 {
					equalities = equalities[:len(equalities)-1]
				}
				if len(equalities) > 0 {
					pointer = equalities[len(equalities)-1]
				} else {
					pointer = -1
				}
				lengthInsertions1, lengthDeletions1 = 0, 0
				lengthInsertions2, lengthDeletions2 = 0, 0
				lastEquality = ""
				changes = true
			}
		}
		pointer++
	}

	if changes {
		diffs = CleanupMerge(diffs)
	}
	diffs = CleanupSemanticLossless(diffs)

	// Find overlaps between deletions and insertions, e.g.
	// <del>abcxxx</del><ins>xxxdef</ins> -> <del>abc</del>xxx<ins>def</ins>
	// <del>xxxabc</del><ins>defxxx</ins> -> <ins>def</ins>xxx<del>abc</del>
	// Only extract an overlap as big as the edit ahead or behind it.
	for pointer = 1; pointer < len(diffs); pointer++ {
		if diffs[pointer-1].Type != Delete || diffs[pointer].Type != Insert {
			continue
		}
		deletion := []rune(diffs[pointer-1].Text)
		insertion := []rune(diffs[pointer].Text)
		overlap1 := commonOverlapRunes(deletion, insertion)
		overlap2 := commonOverlapRunes(insertion, deletion)
		if overlap1 >= overlap2 {
			if float64(overlap1) >= float64(len(deletion))/2 || float64(overlap1) >= float64(len(insertion))/2 {
				diffs = insertDiffs(diffs, pointer, Diff{Equal, string(insertion[:overlap1])})
				diffs[pointer-1].Text = string(deletion[:len(deletion)-overlap1])
				diffs[pointer+1].Text = string(insertion[overlap1:])
				pointer++
			}
		} else {
			if float64(overlap2) >= float64(len(deletion))/2 || float64(overlap2) >= float64(len(insertion))/2 {
				// Reverse overlap: swap the edits around the equality.
				diffs = insertDiffs(diffs, pointer, Diff{Equal, string(deletion[:overlap2])})
				diffs[pointer-1] = Diff{Insert, string(insertion[:len(insertion)-overlap2])}
				diffs[pointer+1] = Diff{Delete, string(deletion[overlap2:])}
				pointer++
			}
		}
		pointer++
	}
	return diffs
}

var (
	blankLineEnd   = regexp.MustCompile(`\n\r?\n$`)
	blankLineStart = regexp.MustCompile(`^\r?\n\r?\n`)
)

// Boundary scores used by CleanupSemanticLossless, best first.
const (
	scoreEdge        = 6
	scoreBlankLine   = 5
	scoreLineBreak   = 4
	scoreSentenceEnd = 3
	scoreWhitespace  = 2
	scoreNonAlnum    = 1
)

// semanticScore rates how well the boundary between one and two falls on
// a natural break.
func semanticScore(one, two string) int {
	if one == "" || two == "" {
		return scoreEdge
	}
	char1, _ := utf8.DecodeLastRuneInString(one)
	char2, _ := utf8.DecodeRuneInString(two)
	nonAlnum1 := !unicode.IsLetter(char1) && !unicode.IsDigit(char1)
	nonAlnum2 := !unicode.IsLetter(char2) && !unicode.IsDigit(char2)
	whitespace1 := nonAlnum1 && unicode.IsSpace(char1)
	whitespace2 := nonAlnum2 && unicode.IsSpace(char2)
	lineBreak1 := whitespace1 && (char1 == '\r' || char1 == '\n')
	lineBreak2 := whitespace2 && (char2 == '\r' || char2 == '\n')
	blankLine1 := lineBreak1 && blankLineEnd.MatchString(one)
	blankLine2 := lineBreak2 && blankLineStart.MatchString(two)

	switch {
	case blankLine1 || blankLine2:
		return scoreBlankLine
	case lineBreak1 || lineBreak2:
		return scoreLineBreak
	case nonAlnum1 && !whitespace1 && whitespace2:
		return scoreSentenceEnd
	case whitespace1 || whitespace2:
		return scoreWhitespace
	case nonAlnum1 || nonAlnum2:
		return scoreNonAlnum
	}
	return 0
}

// CleanupSemanticLossless slides single edits surrounded by equalities to
// the best word or line boundary, e.g. The c<ins>at c</ins>ame. -> The
// <ins>cat </ins>came.
func CleanupSemanticLossless(diffs []Diff) []Diff {
	for pointer := 1; pointer < len(diffs)-1; pointer++ {
		if diffs[pointer-1].Type != Equal || diffs[pointer+1].Type != Equal {
			continue
		}
		equality1 := diffs[pointer-1].Text
		edit := diffs[pointer].Text
		equality2 := diffs[pointer+1].Text

		// First, shift the edit as far left as possible.
		if n := commonSuffixBytes(equality1, edit); n > 0 {
			common := edit[len(edit)-n:]
			equality1 = equality1[:len(equality1)-n]
			edit = common + edit[:len(edit)-n]
			equality2 = common + equality2
		}

		// Second, step right one rune at a time looking for the best fit.
		bestEquality1, bestEdit, bestEquality2 := equality1, edit, equality2
		bestScore := semanticScore(equality1, edit) + semanticScore(edit, equality2)
		for edit != "" && equality2 != "" {
			r1, size1 := utf8.DecodeRuneInString(edit)
			r2, size2 := utf8.DecodeRuneInString(equality2)
			if r1 != r2 {
				break
			}
			equality1 += edit[:size1]
			edit = edit[size1:] + equality2[:size2]
			equality2 = equality2[size2:]
			score := semanticScore(equality1, edit) + semanticScore(edit, equality2)
			// The >= favours trailing over leading whitespace on edits.
			if score >= bestScore {
				bestScore = score
				bestEquality1, bestEdit, bestEquality2 = equality1, edit, equality2
			}
		}

		if diffs[pointer-1].Text == bestEquality1 {
			continue
		}
		// An improvement was found.
		if bestEquality1 != "" {
			diffs[pointer-1].Text = bestEquality1
		} else {
			diffs = removeDiffs(diffs, pointer-1, 1)
			pointer--
		}
		diffs[pointer].Text = bestEdit
		if bestEquality2 != "" {
			diffs[pointer+1].Text = bestEquality2
		} else {
			diffs = removeDiffs(diffs, pointer+1, 1)
			pointer--
		}
	}
	return diffs
}

// CleanupEfficiency reduces the number of edits by eliminating
// operationally trivial equalities, those shorter than editCost that sit
// between edits.
func CleanupEfficiency(diffs []Diff, editCost int) []Diff {
	changes := false
	var equalities []int
	lastEquality := ""
	// Whether there is an insertion or deletion before or after the last
	// equality.
	preIns, preDel := false, false
	postIns, postDel := false, false

	for pointer := 0; pointer < len(diffs); pointer++ {
		d := diffs[pointer]
		if d.Type == Equal {
			if runeLen(d.Text) < editCost && (postIns || postDel) {
				equalities = append(equalities, pointer)
				preIns, preDel = postIns, postDel
				lastEquality = d.Text
			} else {
				equalities = equalities[:0]
				lastEquality = ""
			}
			postIns, postDel = false, false
			continue
		}

		if d.Type == Delete {
			postDel = true
		} else {
			postIns = true
		}

		// Split the equality when it has edits of both kinds on both sides,
		// or when it is very short and has three of the four.
		sides := boolCount(preIns, preDel, postIns, postDel)
		if lastEquality == "" {
			continue
		}
		if !(sides == 4 || (float64(runeLen(lastEquality)) < float64(editCost)/2 && sides == 3)) {
			continue
		}
		at := equalities[len(equalities)-1]
		diffs = insertDiffs(diffs, at, Diff{Delete, lastEquality})
		diffs[at+1].Type = Insert
		equalities = equalities[:len(equalities)-1]
		lastEquality = ""
		if preIns && preDel {
			// No changes made which could affect previous entry, keep going.
			postIns, postDel = true, true
			equalities = equalities[:0]
		} else {
			if len(equalities) > 0 {
				equalities = equalities[:len(equalities)-1]
			}
			if len(equalities) > 0 {
				pointer = equalities[len(equalities)-1]
			} else {
				pointer = -1
			}
			postIns, postDel = false, false
		}
		changes = true
	}

	if changes {
		diffs = CleanupMerge(diffs)
	}
	return diffs
}

func boolCount(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
