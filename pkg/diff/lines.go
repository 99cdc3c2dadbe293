package diff

import (
	"strings"
	"time"
)

const (
	maxLinesText1 = 40000
	maxLinesText2 = 65535

	surrogateMin = 0xD800
	surrogateGap = 0x800
)

// lineRune maps a line index to a rune, skipping the surrogate range so the
// encoded text survives conversion to a Go string.
func lineRune(i int) rune {
	if i >= surrogateMin {
		return rune(i + surrogateGap)
	}
	return rune(i)
}

func runeLine(r rune) int {
	if r >= surrogateMin+surrogateGap {
		return int(r) - surrogateGap
	}
	return int(r)
}

// LinesToChars encodes each distinct line of text1 and text2 as a single
// rune. The returned table maps rune values back to lines; entry zero is
// reserved and always empty.
func LinesToChars(text1, text2 string) (chars1, chars2 string, lines []string) {
	c1, c2, lines := linesToRunes(text1, text2)
	return string(c1), string(c2), lines
}

func linesToRunes(text1, text2 string) ([]rune, []rune, []string) {
	lines := []string{""}
	index := make(map[string]int)
	c1 := linesToRunesMunge(text1, &lines, index, maxLinesText1)
	c2 := linesToRunesMunge(text2, &lines, index, maxLinesText2)
	return c1, c2, lines
}

func linesToRunesMunge(text string, lines *[]string, index map[string]int, maxLines int) []rune {
	var chars []rune
	start := 0
	for start < len(text) {
		end := strings.IndexByte(text[start:], '\n')
		if end == -1 {
			end = len(text)
		} else {
			end += start + 1
		}
		line := text[start:end]
		if i, ok := index[line]; ok {
			chars = append(chars, lineRune(i))
			start = end
			continue
		}
		if len(*lines) == maxLines {
			// Out of code space: the rest of the text becomes one line.
			line = text[start:]
			end = len(text)
		}
		*lines = append(*lines, line)
		index[line] = len(*lines) - 1
		chars = append(chars, lineRune(len(*lines)-1))
		start = end
	}
	return chars
}

// CharsToLines expands diffs produced over LinesToChars output back into
// full lines.
func CharsToLines(diffs []Diff, lines []string) []Diff {
	out := make([]Diff, 0, len(diffs))
	for _, d := range diffs {
		var b strings.Builder
		for _, r := range d.Text {
			b.WriteString(lines[runeLine(r)])
		}
		out = append(out, Diff{d.Type, b.String()})
	}
	return out
}

// LineMode returns a line-granular edit script: every element covers whole
// lines of text1 or text2.
func LineMode(text1, text2 string, opts Options) []Diff {
	c1, c2, lines := linesToRunes(text1, text2)
	return CharsToLines(MainRunes(c1, c2, false, opts.Deadline()), lines)
}

// lineMode diffs on whole lines first, then re-diffs every replacement
// block character by character.
func lineMode(a, b []rune, deadline time.Time) []Diff {
	c1, c2, lines := linesToRunes(string(a), string(b))
	diffs := CharsToLines(MainRunes(c1, c2, false, deadline), lines)
	diffs = CleanupSemantic(diffs)

	out := make([]Diff, 0, len(diffs))
	var textDelete, textInsert strings.Builder
	countDelete, countInsert := 0, 0
	var pending []Diff
	flush := func() {
		if countDelete >= 1 && countInsert >= 1 {
			out = append(out, MainRunes([]rune(textDelete.String()), []rune(textInsert.String()), false, deadline)...)
		} else {
			out = append(out, pending...)
		}
		pending = pending[:0]
		textDelete.Reset()
		textInsert.Reset()
		countDelete, countInsert = 0, 0
	}
	for _, d := range diffs {
		switch d.Type {
		case Insert:
			countInsert++
			textInsert.WriteString(d.Text)
			pending = append(pending, d)
		case Delete:
			countDelete++
			textDelete.WriteString(d.Text)
			pending = append(pending, d)
		case Equal:
			flush()
			out = append(out, d)
		}
	}
	flush()
	return out
}
