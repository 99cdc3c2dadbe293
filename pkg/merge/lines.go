package merge

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/odvcencio/strand/pkg/diff"
)

// lineEdit replaces origin lines [start, end) with text.
type lineEdit struct {
	start, end int
	text       string
}

// lineRegion is a stretch of origin that both sides rewrote differently.
type lineRegion struct {
	start               int
	origin, left, right string
}

// Lines merges two edited copies of a text line by line, diff3 style. Each
// side is diffed against origin on whole lines; edits that touch disjoint
// origin lines are all applied, and a region both sides rewrote differently
// is a conflict settled by policy. Under PreferCheaper the side whose edits
// touch fewer lines wins, left on a tie. Conflict keys are zero-based origin
// line indexes. Texts must be valid UTF-8, as for String.
func Lines(origin, left, right string, policy Policy, opts diff.Options) (string, error) {
	if err := diff.ValidateText(origin, left, right); err != nil {
		return "", fmt.Errorf("merge lines: %w", err)
	}
	switch {
	case left == right, origin == left:
		return right, nil
	case origin == right:
		return left, nil
	}

	units, le := lineEdits(origin, left, opts)
	_, re := lineEdits(origin, right, opts)
	preferLeft := true
	switch policy {
	case TakeRight:
		preferLeft = false
	case PreferCheaper:
		preferLeft = lineCost(le) <= lineCost(re)
	}

	var conflicts []Conflict
	out := mergeLines(units, le, re, func(r lineRegion) string {
		switch {
		case policy == RaiseConflict:
			kind := ModifyModify
			if r.origin == "" {
				kind = InsertInsert
			}
			conflicts = append(conflicts, Conflict{Key: r.start, Kind: kind, Origin: r.origin, Left: r.left, Right: r.right})
			return ""
		case preferLeft:
			return r.left
		}
		return r.right
	})
	if len(conflicts) > 0 {
		return "", &ConflictError{Conflicts: conflicts}
	}
	return out, nil
}

// LinesWithMarkers is Lines that keeps every conflict in the output as a
// marker block holding the left, origin and right versions of the region.
// It returns the merged text and the number of conflict blocks written.
// Callers validate the texts with diff.ValidateText.
func LinesWithMarkers(origin, left, right string, opts diff.Options) (string, int) {
	units, le := lineEdits(origin, left, opts)
	_, re := lineEdits(origin, right, opts)
	n := 0
	out := mergeLines(units, le, re, func(r lineRegion) string {
		n++
		var b strings.Builder
		b.WriteString("<<<<<<< left\n")
		writeTerminated(&b, r.left)
		b.WriteString("||||||| origin\n")
		writeTerminated(&b, r.origin)
		b.WriteString("=======\n")
		writeTerminated(&b, r.right)
		b.WriteString(">>>>>>> right\n")
		return b.String()
	})
	return out, n
}

// LinesHandler merges texts with Lines using opts for the diffs.
func LinesHandler(opts diff.Options) Handler[string] {
	return HandlerFunc[string](func(origin, left, right string, policy Policy) (string, error) {
		return Lines(origin, left, right, policy, opts)
	})
}

// lineEdits diffs edited against origin on whole lines. It also returns
// origin split into the lines the edits index.
func lineEdits(origin, edited string, opts diff.Options) ([]string, []lineEdit) {
	c1, c2, table := diff.LinesToChars(origin, edited)
	units := make([]string, 0, utf8.RuneCountInString(c1))
	for _, r := range c1 {
		units = append(units, lineText(r, table))
	}

	var edits []lineEdit
	var cur *lineEdit
	pos := 0
	for _, d := range diff.MainRunes([]rune(c1), []rune(c2), false, opts.Deadline()) {
		n := utf8.RuneCountInString(d.Text)
		if d.Type == diff.Equal {
			if cur != nil {
				edits = append(edits, *cur)
				cur = nil
			}
			pos += n
			continue
		}
		if cur == nil {
			cur = &lineEdit{start: pos, end: pos}
		}
		switch d.Type {
		case diff.Delete:
			cur.end += n
			pos += n
		case diff.Insert:
			cur.text += diff.CharsToLines([]diff.Diff{d}, table)[0].Text
		}
	}
	if cur != nil {
		edits = append(edits, *cur)
	}
	return units, edits
}

func lineText(r rune, table []string) string {
	return diff.CharsToLines([]diff.Diff{{Type: diff.Equal, Text: string(r)}}, table)[0].Text
}

// mergeLines walks both edit lists over the origin lines. Edits from the two
// sides that overlap, or insert at the same line, are grouped into one
// region; resolve decides the text of regions the sides disagree on.
func mergeLines(units []string, le, re []lineEdit, resolve func(lineRegion) string) string {
	var b strings.Builder
	pos, i, j := 0, 0, 0
	for i < len(le) || j < len(re) {
		start := len(units)
		if i < len(le) {
			start = le[i].start
		}
		if j < len(re) {
			start = min(start, re[j].start)
		}

		end := start
		li, rj := i, j
		for grew := true; grew; {
			grew = false
			if li < len(le) && touches(le[li], start, end) {
				end = max(end, le[li].end)
				li++
				grew = true
			}
			if rj < len(re) && touches(re[rj], start, end) {
				end = max(end, re[rj].end)
				rj++
				grew = true
			}
		}

		b.WriteString(strings.Join(units[pos:start], ""))
		left := applyLines(units, le[i:li], start, end)
		right := applyLines(units, re[j:rj], start, end)
		switch {
		case li == i:
			b.WriteString(right)
		case rj == j, left == right:
			b.WriteString(left)
		default:
			b.WriteString(resolve(lineRegion{
				start:  start,
				origin: strings.Join(units[start:end], ""),
				left:   left,
				right:  right,
			}))
		}
		pos, i, j = end, li, rj
	}
	b.WriteString(strings.Join(units[pos:], ""))
	return b.String()
}

func touches(e lineEdit, start, end int) bool {
	return e.start < end || e.start == start
}

// applyLines rewrites origin lines [start, end) with edits.
func applyLines(units []string, edits []lineEdit, start, end int) string {
	var b strings.Builder
	p := start
	for _, e := range edits {
		b.WriteString(strings.Join(units[p:e.start], ""))
		b.WriteString(e.text)
		p = e.end
	}
	b.WriteString(strings.Join(units[p:end], ""))
	return b.String()
}

func lineCost(edits []lineEdit) int {
	n := 0
	for _, e := range edits {
		n += e.end - e.start + strings.Count(e.text, "\n")
		if e.text != "" && !strings.HasSuffix(e.text, "\n") {
			n++
		}
	}
	return n
}

func writeTerminated(b *strings.Builder, text string) {
	b.WriteString(text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		b.WriteByte('\n')
	}
}
