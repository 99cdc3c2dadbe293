package diff

import (
	"unicode/utf8"
)

// CommonPrefixLength returns the number of leading runes shared by a and b.
func CommonPrefixLength(a, b string) int {
	return commonPrefixRunes([]rune(a), []rune(b))
}

// CommonSuffixLength returns the number of trailing runes shared by a and b.
func CommonSuffixLength(a, b string) int {
	return commonSuffixRunes([]rune(a), []rune(b))
}

// CommonOverlapLength returns the length in runes of the longest suffix of a
// that is also a prefix of b.
func CommonOverlapLength(a, b string) int {
	return commonOverlapRunes([]rune(a), []rune(b))
}

func commonPrefixRunes(a, b []rune) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func commonSuffixRunes(a, b []rune) int {
	i, j := len(a), len(b)
	n := 0
	for i > 0 && j > 0 && a[i-1] == b[j-1] {
		i--
		j--
		n++
	}
	return n
}

// commonOverlapRunes truncates both inputs to the same length and then
// grows the candidate overlap using substring search, so most
// non-overlapping pairs exit after a single probe.
func commonOverlapRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a = a[len(a)-len(b):]
	} else if len(a) < len(b) {
		b = b[:len(a)]
	}
	n := len(a)
	if runesEqual(a, b) {
		return n
	}

	best := 0
	length := 1
	for {
		pattern := a[n-length:]
		found := indexRunes(b, pattern, 0)
		if found == -1 {
			return best
		}
		length += found
		if found == 0 || runesEqual(a[n-length:], b[:length]) {
			best = length
			length++
		}
	}
}

// commonPrefixBytes is the byte length of the shared prefix of a and b,
// shortened so it never splits a UTF-8 sequence.
func commonPrefixBytes(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	for i > 0 && ((i < len(a) && !utf8.RuneStart(a[i])) || (i < len(b) && !utf8.RuneStart(b[i]))) {
		i--
	}
	return i
}

// commonSuffixBytes is the byte length of the shared suffix of a and b,
// shortened so it starts on a rune boundary.
func commonSuffixBytes(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	for i > 0 && (!utf8.RuneStart(a[len(a)-i]) || !utf8.RuneStart(b[len(b)-i])) {
		i--
	}
	return i
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

// indexRunes returns the index of the first occurrence of sep in s at or
// after from, or -1.
func indexRunes(s, sep []rune, from int) int {
	if from < 0 {
		from = 0
	}
	if len(sep) == 0 {
		if from > len(s) {
			return -1
		}
		return from
	}
	last := len(s) - len(sep)
	for i := from; i <= last; i++ {
		if s[i] != sep[0] {
			continue
		}
		if runesEqual(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}

// IndexRunes reports the first index of sep in s at or after from, or -1.
func IndexRunes(s, sep []rune, from int) int {
	return indexRunes(s, sep, from)
}

// LastIndexRunes reports the last index of sep in s that starts at or before
// from, or -1.
func LastIndexRunes(s, sep []rune, from int) int {
	if from > len(s)-len(sep) {
		from = len(s) - len(sep)
	}
	for i := from; i >= 0; i-- {
		if runesEqual(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
