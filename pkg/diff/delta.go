package diff

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrMalformed is the error kind for delta or patch text that cannot be
// decoded.
var ErrMalformed = errors.New("malformed input")

// FormatError reports the token or line that failed to decode.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed input %q: %s", e.Input, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrMalformed }

func malformed(input, format string, args ...any) error {
	return &FormatError{Input: input, Reason: fmt.Sprintf(format, args...)}
}

// ValidateText reports the first text that is not valid UTF-8. The engines
// index texts by rune, and an invalid byte would decode to U+FFFD and lose
// the original bytes.
func ValidateText(texts ...string) error {
	for _, text := range texts {
		if utf8.ValidString(text) {
			continue
		}
		i := 0
		for i < len(text) {
			r, n := utf8.DecodeRuneInString(text[i:])
			if r == utf8.RuneError && n == 1 {
				break
			}
			i += n
		}
		return malformed(text[i:i+1], "invalid UTF-8 at byte %d", i)
	}
	return nil
}

const upperhex = "0123456789ABCDEF"

// shouldEscape reports whether b must be percent-encoded. The unescaped set
// is the URI-reserved and unreserved marks plus the space character, which
// is kept literal for readability.
func shouldEscape(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return false
	}
	switch b {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')',
		';', '/', '?', ':', '@', '&', '=', '+', '$', ',', '#', ' ':
		return false
	}
	return true
}

// EscapeText percent-encodes text for delta and patch bodies. Multi-byte
// runes are encoded as their UTF-8 bytes.
func EscapeText(text string) string {
	n := 0
	for i := 0; i < len(text); i++ {
		if shouldEscape(text[i]) {
			n++
		}
	}
	if n == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 2*n)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// UnescapeText reverses EscapeText. A literal '+' stays a plus sign. Invalid
// escapes and escapes that decode to invalid UTF-8 are errors.
func UnescapeText(text string) (string, error) {
	out, err := url.PathUnescape(text)
	if err != nil {
		return "", malformed(text, "invalid escape: %v", err)
	}
	if !utf8.ValidString(out) {
		return "", malformed(text, "escape decodes to invalid UTF-8")
	}
	return out, nil
}

// ToDelta crunches an edit script into a tab-separated string: "=N" keeps N
// runes of the source, "-N" deletes N runes and "+text" inserts the escaped
// text. Together with the source text it is enough to rebuild the script.
func ToDelta(diffs []Diff) string {
	tokens := make([]string, 0, len(diffs))
	for _, d := range diffs {
		switch d.Type {
		case Insert:
			tokens = append(tokens, "+"+EscapeText(d.Text))
		case Delete:
			tokens = append(tokens, "-"+strconv.Itoa(runeLen(d.Text)))
		case Equal:
			tokens = append(tokens, "="+strconv.Itoa(runeLen(d.Text)))
		}
	}
	return strings.Join(tokens, "\t")
}

// FromDelta rebuilds the edit script from the source text and a delta
// produced by ToDelta. Decoding is all or nothing: any malformed token, or a
// delta that does not consume exactly the whole source, yields an error
// matching ErrMalformed and no script. text1 must be valid UTF-8.
func FromDelta(text1, delta string) ([]Diff, error) {
	if err := ValidateText(text1); err != nil {
		return nil, err
	}
	src := []rune(text1)
	var diffs []Diff
	pointer := 0
	for _, token := range strings.Split(delta, "\t") {
		if token == "" {
			// Blank tokens are ok (from a trailing \t).
			continue
		}
		param := token[1:]
		switch token[0] {
		case '+':
			text, err := UnescapeText(param)
			if err != nil {
				return nil, err
			}
			diffs = append(diffs, Diff{Insert, text})
		case '-', '=':
			if param == "" || param[0] < '0' || param[0] > '9' {
				return nil, malformed(token, "invalid length")
			}
			n, err := strconv.Atoi(param)
			if err != nil {
				return nil, malformed(token, "invalid length")
			}
			if pointer+n > len(src) {
				return nil, malformed(token, "length %d exceeds remaining source (%d)", n, len(src)-pointer)
			}
			text := string(src[pointer : pointer+n])
			pointer += n
			if token[0] == '=' {
				diffs = append(diffs, Diff{Equal, text})
			} else {
				diffs = append(diffs, Diff{Delete, text})
			}
		default:
			return nil, malformed(token, "invalid operation %q", token[0])
		}
	}
	if pointer != len(src) {
		return nil, malformed(delta, "delta length %d does not match source length %d", pointer, len(src))
	}
	return diffs, nil
}
