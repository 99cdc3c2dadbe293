package merge

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/odvcencio/strand/pkg/diff"
)

type segment struct {
	op   diff.Operation
	text []rune
}

// String merges two edited copies of a text. Both edits are diffed against
// origin and walked in lock step over the origin text: equalities pass
// through, a deletion on either side wins, and insertions pass through. Two
// different insertions at the same origin offset conflict; policy settles
// them, PreferCheaper by keeping the side whose whole edit script touches
// fewer runes (left on a tie).
//
// This is a character-level heuristic, not a line-based diff3: it never
// produces conflict markers. Texts that are not valid UTF-8 are rejected
// with an error matching diff.ErrMalformed.
func String(origin, left, right string, policy Policy, opts diff.Options) (string, error) {
	if err := diff.ValidateText(origin, left, right); err != nil {
		return "", fmt.Errorf("merge string: %w", err)
	}
	switch {
	case left == right, origin == left:
		return right, nil
	case origin == right:
		return left, nil
	}

	l := segments(origin, left, opts)
	r := segments(origin, right, opts)
	preferLeft := true
	switch policy {
	case TakeRight:
		preferLeft = false
	case PreferCheaper:
		preferLeft = cost(l) <= cost(r)
	}

	out := make([]rune, 0, max(utf8.RuneCountInString(left), utf8.RuneCountInString(right)))
	var conflicts []Conflict
	pos := 0 // offset in origin
	i, j := 0, 0
	for i < len(l) || j < len(r) {
		leftInsert := i < len(l) && l[i].op == diff.Insert
		rightInsert := j < len(r) && r[j].op == diff.Insert
		switch {
		case leftInsert && rightInsert:
			lt, rt := l[i].text, r[j].text
			switch {
			case string(lt) == string(rt):
				out = append(out, lt...)
			case policy == RaiseConflict:
				conflicts = append(conflicts, Conflict{Key: pos, Kind: InsertInsert, Origin: "", Left: string(lt), Right: string(rt)})
			case preferLeft:
				out = append(out, lt...)
			default:
				out = append(out, rt...)
			}
			i++
			j++
		case leftInsert:
			out = append(out, l[i].text...)
			i++
		case rightInsert:
			out = append(out, r[j].text...)
			j++
		case i < len(l) && j < len(r):
			// Both sides consume origin text; split the longer segment so
			// they advance together.
			n := min(len(l[i].text), len(r[j].text))
			if l[i].op == diff.Equal && r[j].op == diff.Equal {
				out = append(out, l[i].text[:n]...)
			}
			pos += n
			if l[i].text = l[i].text[n:]; len(l[i].text) == 0 {
				i++
			}
			if r[j].text = r[j].text[n:]; len(r[j].text) == 0 {
				j++
			}
		default:
			// Both scripts cover the same origin, so neither runs out of
			// origin segments before the other.
			return "", errors.New("merge string: edit scripts do not cover the same origin")
		}
	}

	if len(conflicts) > 0 {
		return "", &ConflictError{Conflicts: conflicts}
	}
	return string(out), nil
}

// segments diffs origin against edited and splits the script into rune
// segments, dropping empty ones.
func segments(origin, edited string, opts diff.Options) []segment {
	diffs := diff.CleanupSemantic(diff.Main(origin, edited, false, opts))
	out := make([]segment, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		out = append(out, segment{op: d.Type, text: []rune(d.Text)})
	}
	return out
}

// cost counts the runes an edit script inserts or deletes.
func cost(segs []segment) int {
	n := 0
	for _, s := range segs {
		if s.op != diff.Equal {
			n += len(s.text)
		}
	}
	return n
}
