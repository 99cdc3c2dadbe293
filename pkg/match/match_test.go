package match

import (
	"reflect"
	"strings"
	"testing"
)

func TestAlphabet(t *testing.T) {
	tests := []struct {
		pattern string
		want    map[rune]uint64
	}{
		{"abc", map[rune]uint64{'a': 4, 'b': 2, 'c': 1}},
		{"abcaba", map[rune]uint64{'a': 37, 'b': 18, 'c': 8}},
		{"żółw", map[rune]uint64{'ż': 8, 'ó': 4, 'ł': 2, 'w': 1}},
	}
	for _, tt := range tests {
		if got := Alphabet([]rune(tt.pattern)); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Alphabet(%q) = %v, want %v", tt.pattern, got, tt.want)
		}
	}
}

func TestBitap(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		pattern   string
		loc       int
		threshold float64
		distance  int
		want      int
	}{
		{"exact match 1", "abcdefghijk", "fgh", 5, 0.5, 100, 5},
		{"exact match 2", "abcdefghijk", "fgh", 0, 0.5, 100, 5},
		{"fuzzy match 1", "abcdefghijk", "efxhi", 0, 0.5, 100, 4},
		{"fuzzy match 2", "abcdefghijk", "cdefxyhijk", 5, 0.5, 100, 2},
		{"fuzzy match 3", "abcdefghijk", "bxy", 1, 0.5, 100, -1},
		{"overflow", "123456789xx0", "3456789x0", 2, 0.5, 100, 2},
		{"before start", "abcdef", "xxabc", 4, 0.5, 100, 0},
		{"beyond end", "abcdef", "defyy", 4, 0.5, 100, 3},
		{"oversized pattern", "abcdef", "xabcdefy", 0, 0.5, 100, 0},
		{"threshold 1", "abcdefghijk", "efxyhi", 1, 0.4, 100, 4},
		{"threshold 2", "abcdefghijk", "efxyhi", 1, 0.3, 100, -1},
		{"threshold 3", "abcdefghijk", "bcdef", 1, 0.0, 100, 1},
		{"multiple select 1", "abcdexyzabcde", "abccde", 3, 0.5, 100, 0},
		{"multiple select 2", "abcdexyzabcde", "abccde", 5, 0.5, 100, 8},
		{"distance strict", "abcdefghijklmnopqrstuvwxyz", "abcdefg", 24, 0.5, 10, -1},
		{"distance strict fuzzy", "abcdefghijklmnopqrstuvwxyz", "abcdxxefg", 1, 0.5, 10, 0},
		{"distance loose", "abcdefghijklmnopqrstuvwxyz", "abcdefg", 24, 0.5, 1000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Threshold: tt.threshold, Distance: tt.distance, MaxBits: 32}
			if got := bitap([]rune(tt.text), []rune(tt.pattern), tt.loc, opts); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	def := DefaultOptions()
	tests := []struct {
		name    string
		text    string
		pattern string
		loc     int
		opts    Options
		want    int
	}{
		{"equality", "abcdef", "abcdef", 1000, def, 0},
		{"null text", "", "abcdef", 1, def, -1},
		{"null pattern", "abcdef", "", 3, def, 3},
		{"exact match", "abcdef", "de", 3, def, 3},
		{"beyond end match", "abcdef", "defy", 4, def, 3},
		{"oversized pattern", "abcdef", "abcdefy", 0, def, 0},
		{"complex match", "I am the very model of a modern major general.", " that berry ", 5, Options{Threshold: 0.7, Distance: 1000, MaxBits: 32}, 4},
		{"negative location clamps", "abcdef", "cd", -5, def, 2},
		{"runes not bytes", "żółw i kot", "kot", 0, def, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Locate(tt.text, tt.pattern, tt.loc, tt.opts); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLocateSelfIsZero(t *testing.T) {
	for _, text := range []string{"a", "hello world", strings.Repeat("xyz", 50), "日本語"} {
		for _, loc := range []int{0, 3, 1000} {
			if got := Locate(text, text, loc, DefaultOptions()); got != 0 {
				t.Errorf("Locate(%q, itself, %d) = %d, want 0", text, loc, got)
			}
		}
	}
}

func TestLocateLongPatternFallsBackToExactSearch(t *testing.T) {
	pattern := strings.Repeat("0123456789", 8)
	text := "prefix " + pattern + " middle " + pattern + " suffix"
	opts := DefaultOptions()

	// The occurrence nearest the expected location wins.
	second := len("prefix ") + len(pattern) + len(" middle ")
	if got := Locate(text, pattern, second-3, opts); got != second {
		t.Fatalf("got %d, want %d", got, second)
	}
	if got := Locate(text, pattern, 2, opts); got != len("prefix ") {
		t.Fatalf("got %d, want %d", got, len("prefix "))
	}
	if got := Locate(text, pattern+"!", 0, opts); got != -1 {
		t.Fatalf("got %d, want -1 for an absent long pattern", got)
	}
}

func TestLocateWidePatterns(t *testing.T) {
	// With 64 bits a 40-rune pattern still goes through Bitap and tolerates
	// a typo.
	pattern := "the quick brown fox jumps over a lazy do"
	text := "....the quick brown fox jumpz over a lazy dog...."
	opts := Options{Threshold: 0.5, Distance: 1000, MaxBits: 64}
	if got := Locate(text, pattern, 4, opts); got != 4 {
		t.Fatalf("got %d, want 4", got)
	}
}

func TestScoreZeroDistance(t *testing.T) {
	opts := Options{Threshold: 0.5, Distance: 0, MaxBits: 32}
	if got := score(1, 5, 5, 4, opts); got != 0.25 {
		t.Errorf("score at loc = %v, want 0.25", got)
	}
	if got := score(0, 6, 5, 4, opts); got != 1.0 {
		t.Errorf("score off loc = %v, want 1.0", got)
	}
}
