package diff

type halfMatchResult struct {
	a1, a2 []rune // prefix and suffix of text1 around the common middle
	b1, b2 []rune // prefix and suffix of text2 around the common middle
	common []rune
}

// halfMatch looks for a substring shared by a and b that is at least half
// the length of the longer text. It trades minimality for speed, so it only
// runs when a deadline is in force.
func halfMatch(a, b []rune, limited bool) *halfMatchResult {
	if !limited {
		return nil
	}
	long, short := a, b
	if len(a) < len(b) {
		long, short = b, a
	}
	if len(long) < 4 || len(short)*2 < len(long) {
		return nil
	}

	// Seed at the second quarter, then at the third quarter.
	hm1 := halfMatchAt(long, short, (len(long)+3)/4)
	hm2 := halfMatchAt(long, short, (len(long)+1)/2)

	var hm *halfMatchResult
	switch {
	case hm1 == nil && hm2 == nil:
		return nil
	case hm2 == nil:
		hm = hm1
	case hm1 == nil:
		hm = hm2
	case len(hm1.common) > len(hm2.common):
		hm = hm1
	default:
		hm = hm2
	}

	if len(a) > len(b) {
		return hm
	}
	return &halfMatchResult{a1: hm.b1, a2: hm.b2, b1: hm.a1, b2: hm.a2, common: hm.common}
}

// halfMatchAt checks whether a quarter-length seed of long starting at i
// extends into a common substring at least half as long as long. The
// returned a-fields belong to long.
func halfMatchAt(long, short []rune, i int) *halfMatchResult {
	seed := long[i : i+len(long)/4]

	var best halfMatchResult
	bestLen := 0
	for j := indexRunes(short, seed, 0); j != -1; j = indexRunes(short, seed, j+1) {
		prefixLen := commonPrefixRunes(long[i:], short[j:])
		suffixLen := commonSuffixRunes(long[:i], short[:j])
		if bestLen < suffixLen+prefixLen {
			bestLen = suffixLen + prefixLen
			best = halfMatchResult{
				a1:     long[:i-suffixLen],
				a2:     long[i+prefixLen:],
				b1:     short[:j-suffixLen],
				b2:     short[j+prefixLen:],
				common: short[j-suffixLen : j+prefixLen],
			}
		}
	}
	if bestLen*2 >= len(long) {
		return &best
	}
	return nil
}
