package diff

import "time"

// Bisect finds the middle snake of a and b and returns the full edit
// script. It is exported for callers that want Myers' algorithm without the
// pre-processing speedups of Main.
func Bisect(a, b string, deadline time.Time) []Diff {
	ra, rb := []rune(a), []rune(b)
	diffs, subs := bisect(ra, rb, deadline)
	if diffs != nil {
		return diffs
	}
	var out []Diff
	for _, j := range subs {
		out = append(out, MainRunes(j.a, j.b, false, deadline)...)
	}
	return out
}

// bisect runs the two-frontier Myers search. On success it returns the two
// halves as sub-jobs; if the deadline passes first, or the texts share
// nothing, it returns a single delete/insert pair.
func bisect(a, b []rune, deadline time.Time) ([]Diff, []job) {
	n, m := len(a), len(b)
	maxD := (n + m + 1) / 2
	vOffset := maxD
	vLength := 2*maxD + 2
	v1 := make([]int, vLength)
	v2 := make([]int, vLength)
	for i := range v1 {
		v1[i] = -1
		v2[i] = -1
	}
	v1[vOffset+1] = 0
	v2[vOffset+1] = 0

	delta := n - m
	// With an odd delta the forward path collides with the reverse path.
	front := delta%2 != 0

	// Offsets for the start and end of the k loops; they prevent mapping
	// space beyond the grid.
	k1start, k1end := 0, 0
	k2start, k2end := 0, 0
	limited := !deadline.IsZero()

	for d := 0; d < maxD; d++ {
		if limited && time.Now().After(deadline) {
			break
		}

		for k1 := -d + k1start; k1 <= d-k1end; k1 += 2 {
			k1Offset := vOffset + k1
			var x1 int
			if k1 == -d || (k1 != d && v1[k1Offset-1] < v1[k1Offset+1]) {
				x1 = v1[k1Offset+1]
			} else {
				x1 = v1[k1Offset-1] + 1
			}
			y1 := x1 - k1
			for x1 < n && y1 < m && a[x1] == b[y1] {
				x1++
				y1++
			}
			v1[k1Offset] = x1
			switch {
			case x1 > n:
				k1end += 2
			case y1 > m:
				k1start += 2
			case front:
				k2Offset := vOffset + delta - k1
				if k2Offset >= 0 && k2Offset < vLength && v2[k2Offset] != -1 {
					x2 := n - v2[k2Offset]
					if x1 >= x2 {
						return nil, bisectSplit(a, b, x1, y1)
					}
				}
			}
		}

		for k2 := -d + k2start; k2 <= d-k2end; k2 += 2 {
			k2Offset := vOffset + k2
			var x2 int
			if k2 == -d || (k2 != d && v2[k2Offset-1] < v2[k2Offset+1]) {
				x2 = v2[k2Offset+1]
			} else {
				x2 = v2[k2Offset-1] + 1
			}
			y2 := x2 - k2
			for x2 < n && y2 < m && a[n-x2-1] == b[m-y2-1] {
				x2++
				y2++
			}
			v2[k2Offset] = x2
			switch {
			case x2 > n:
				k2end += 2
			case y2 > m:
				k2start += 2
			case !front:
				k1Offset := vOffset + delta - k2
				if k1Offset >= 0 && k1Offset < vLength && v1[k1Offset] != -1 {
					x1 := v1[k1Offset]
					y1 := vOffset + x1 - k1Offset
					if x1 >= n-x2 {
						return nil, bisectSplit(a, b, x1, y1)
					}
				}
			}
		}
	}

	return []Diff{{Delete, string(a)}, {Insert, string(b)}}, nil
}

func bisectSplit(a, b []rune, x, y int) []job {
	return []job{
		{a: a[:x], b: b[:y]},
		{a: a[x:], b: b[y:]},
	}
}
