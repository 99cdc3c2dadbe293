package diff

import "strings"

// Levenshtein returns the edit distance implied by diffs: for every run of
// edits between equalities, the larger of its inserted and deleted rune
// counts.
func Levenshtein(diffs []Diff) int {
	distance := 0
	insertions, deletions := 0, 0
	for _, d := range diffs {
		switch d.Type {
		case Insert:
			insertions += runeLen(d.Text)
		case Delete:
			deletions += runeLen(d.Text)
		case Equal:
			distance += max(insertions, deletions)
			insertions, deletions = 0, 0
		}
	}
	return distance + max(insertions, deletions)
}

// XIndex maps loc, a rune offset in the source text, to the equivalent
// offset in the target text. A location inside a deletion maps to the start
// of that deletion in the target.
func XIndex(diffs []Diff, loc int) int {
	chars1, chars2 := 0, 0
	lastChars1, lastChars2 := 0, 0
	var last *Diff
	for i := range diffs {
		d := &diffs[i]
		n := runeLen(d.Text)
		if d.Type != Insert {
			chars1 += n
		}
		if d.Type != Delete {
			chars2 += n
		}
		if chars1 > loc {
			// Overshot the location.
			last = d
			break
		}
		lastChars1, lastChars2 = chars1, chars2
	}
	if last != nil && last.Type == Delete {
		return lastChars2
	}
	return lastChars2 + (loc - lastChars1)
}

// PrettyText renders diffs as plain text with deletions in [-...-] and
// insertions in {+...+}, the way word-diff tools print them.
func PrettyText(diffs []Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case Insert:
			b.WriteString("{+")
			b.WriteString(d.Text)
			b.WriteString("+}")
		case Delete:
			b.WriteString("[-")
			b.WriteString(d.Text)
			b.WriteString("-]")
		case Equal:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
