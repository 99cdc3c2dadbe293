package patch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/odvcencio/strand/pkg/diff"
)

var headerRE = regexp.MustCompile(`^@@ -(\d+),?(\d*) \+(\d+),?(\d*) @@$`)

// ToText serializes patches in the GNU-diff-like text form.
func ToText(patches []Patch) string {
	var b strings.Builder
	for _, p := range patches {
		b.WriteString(p.String())
	}
	return b.String()
}

// FromText parses the output of ToText. Parsing is all or nothing: a bad
// header, an unknown line prefix or an invalid escape returns an error
// matching diff.ErrMalformed and no patches.
func FromText(text string) ([]Patch, error) {
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	var patches []Patch
	i := 0
	for i < len(lines) {
		if lines[i] == "" {
			// Trailing newline.
			i++
			continue
		}
		m := headerRE.FindStringSubmatch(lines[i])
		if m == nil {
			return nil, &diff.FormatError{Input: lines[i], Reason: "invalid patch header"}
		}
		var p Patch
		var err error
		if p.Start1, p.Length1, err = parseCoords(m[1], m[2]); err != nil {
			return nil, &diff.FormatError{Input: lines[i], Reason: err.Error()}
		}
		if p.Start2, p.Length2, err = parseCoords(m[3], m[4]); err != nil {
			return nil, &diff.FormatError{Input: lines[i], Reason: err.Error()}
		}
		i++

	body:
		for ; i < len(lines); i++ {
			line := lines[i]
			if line == "" {
				continue
			}
			var op diff.Operation
			switch line[0] {
			case '-':
				op = diff.Delete
			case '+':
				op = diff.Insert
			case ' ':
				op = diff.Equal
			case '@':
				break body
			default:
				return nil, &diff.FormatError{Input: line, Reason: fmt.Sprintf("invalid patch mode %q", line[0])}
			}
			decoded, err := diff.UnescapeText(line[1:])
			if err != nil {
				return nil, err
			}
			p.Diffs = append(p.Diffs, diff.Diff{Type: op, Text: decoded})
		}
		patches = append(patches, p)
	}
	return patches, nil
}

// parseCoords decodes one side of a hunk header into a 0-based start and a
// length. An omitted length means one; a zero length keeps the start as is.
func parseCoords(start, length string) (int, int, error) {
	s, err := strconv.Atoi(start)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start %q", start)
	}
	switch length {
	case "":
		return s - 1, 1, nil
	case "0":
		return s, 0, nil
	}
	n, err := strconv.Atoi(length)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid length %q", length)
	}
	return s - 1, n, nil
}
