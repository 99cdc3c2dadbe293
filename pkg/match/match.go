// Package match locates the best fuzzy occurrence of a pattern in a text
// near an expected location, using the Bitap algorithm.
//
// Locations count Unicode code points (runes).
package match

import (
	"math"

	"github.com/odvcencio/strand/pkg/diff"
)

// Options tunes the matcher.
type Options struct {
	// Threshold is the worst score accepted, from 0.0 (perfect match only)
	// to 1.0 (anything matches).
	Threshold float64
	// Distance is how far from the expected location a match may be found,
	// in runes, before its score reaches 1.0. Zero requires the exact
	// location.
	Distance int
	// MaxBits is the longest pattern Bitap searches. Longer patterns fall
	// back to exact search. At most 64.
	MaxBits int
}

// DefaultOptions returns threshold 0.5, distance 1000 and 32 pattern bits.
func DefaultOptions() Options {
	return Options{Threshold: 0.5, Distance: 1000, MaxBits: 32}
}

// MaxPatternBits is the widest pattern the uint64 bit vectors can hold.
const MaxPatternBits = 64

// Locate returns the rune offset of the best match of pattern in text near
// loc, or -1 if nothing scores within the threshold. Both texts must be
// valid UTF-8.
func Locate(text, pattern string, loc int, opts Options) int {
	return LocateRunes([]rune(text), []rune(pattern), loc, opts)
}

// LocateRunes is Locate over rune slices.
func LocateRunes(text, pattern []rune, loc int, opts Options) int {
	loc = max(0, min(loc, len(text)))
	switch {
	case runesEqual(text, pattern):
		// Shortcut (potentially not guaranteed by the algorithm).
		return 0
	case len(text) == 0:
		return -1
	case loc+len(pattern) <= len(text) && runesEqual(text[loc:loc+len(pattern)], pattern):
		// Perfect match at the perfect spot.
		return loc
	}
	if len(pattern) > opts.PatternBits() {
		return exact(text, pattern, loc)
	}
	return bitap(text, pattern, loc, opts)
}

// PatternBits is the effective MaxBits: out of range values mean
// MaxPatternBits.
func (o Options) PatternBits() int {
	if o.MaxBits <= 0 || o.MaxBits > MaxPatternBits {
		return MaxPatternBits
	}
	return o.MaxBits
}

// exact picks the occurrence of pattern closest to loc.
func exact(text, pattern []rune, loc int) int {
	best := diff.IndexRunes(text, pattern, loc)
	if back := diff.LastIndexRunes(text, pattern, loc); back != -1 && (best == -1 || loc-back < best-loc) {
		best = back
	}
	return best
}

// Alphabet maps each rune of pattern to the bit positions where it occurs,
// with the first rune in the highest bit.
func Alphabet(pattern []rune) map[rune]uint64 {
	s := make(map[rune]uint64, len(pattern))
	for i, r := range pattern {
		s[r] |= 1 << uint(len(pattern)-i-1)
	}
	return s
}

// score rates a match with e errors at location x: lower is better.
func score(e, x, loc, patternLen int, opts Options) float64 {
	accuracy := float64(e) / float64(patternLen)
	proximity := abs(loc - x)
	if opts.Distance == 0 {
		// Dodge divide by zero.
		if proximity == 0 {
			return accuracy
		}
		return 1.0
	}
	return accuracy + float64(proximity)/float64(opts.Distance)
}

func bitap(text, pattern []rune, loc int, opts Options) int {
	s := Alphabet(pattern)
	threshold := opts.Threshold

	// Tighten the threshold with any exact match nearby, searching in both
	// directions.
	if best := diff.IndexRunes(text, pattern, loc); best != -1 {
		threshold = math.Min(score(0, best, loc, len(pattern), opts), threshold)
		if best = diff.LastIndexRunes(text, pattern, loc+len(pattern)); best != -1 {
			threshold = math.Min(score(0, best, loc, len(pattern), opts), threshold)
		}
	}

	matchmask := uint64(1) << uint(len(pattern)-1)
	bestLoc := -1

	binMax := len(pattern) + len(text)
	var lastRd []uint64
	for d := 0; d < len(pattern); d++ {
		// Binary search for how far from loc this error level can stray
		// while still scoring under the threshold.
		binMin, binMid := 0, binMax
		for binMin < binMid {
			if score(d, loc+binMid, loc, len(pattern), opts) <= threshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		// Use the result from this iteration as the maximum for the next.
		binMax = binMid
		start := max(1, loc-binMid+1)
		finish := min(loc+binMid, len(text)) + len(pattern)

		rd := make([]uint64, finish+2)
		rd[finish+1] = (1 << uint(d)) - 1
		for j := finish; j >= start; j-- {
			var charMatch uint64
			if j-1 < len(text) {
				charMatch = s[text[j-1]]
			}
			if d == 0 {
				// First pass: exact match.
				rd[j] = ((rd[j+1] << 1) | 1) & charMatch
			} else {
				// Subsequent passes: fuzzy match.
				rd[j] = ((rd[j+1]<<1)|1)&charMatch | (((lastRd[j+1] | lastRd[j]) << 1) | 1) | lastRd[j+1]
			}
			if rd[j]&matchmask == 0 {
				continue
			}
			sc := score(d, j-1, loc, len(pattern), opts)
			// This match will almost certainly be better than any existing
			// match, but check anyway.
			if sc > threshold {
				continue
			}
			threshold = sc
			bestLoc = j - 1
			if bestLoc <= loc {
				// Already passed loc, downhill from here on in.
				break
			}
			// When passing loc, don't exceed our current distance from loc.
			start = max(1, 2*loc-bestLoc)
		}
		// No hope for a (better) match at greater error levels.
		if score(d+1, loc, loc, len(pattern), opts) > threshold {
			break
		}
		lastRd = rd
	}
	return bestLoc
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

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
