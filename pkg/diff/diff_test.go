package diff

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func eq(text string) Diff  { return Diff{Equal, text} }
func del(text string) Diff { return Diff{Delete, text} }
func ins(text string) Diff { return Diff{Insert, text} }

func assertDiffs(t *testing.T, got, want []Diff) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// noTimeout keeps results deterministic; the half-match speedup only runs
// under a deadline.
var noTimeout = Options{EditCost: 4}

func TestCommonPrefixLength(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"abc", "xyz", 0},
		{"1234abcdef", "1234xyz", 4},
		{"1234", "1234xyz", 4},
		{"héllo", "hélp", 3},
	}
	for _, tt := range tests {
		if got := CommonPrefixLength(tt.a, tt.b); got != tt.want {
			t.Errorf("CommonPrefixLength(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCommonSuffixLength(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"abc", "xyz", 0},
		{"abcdef1234", "xyz1234", 4},
		{"1234", "xyz1234", 4},
		{"naïve", "xïve", 3},
	}
	for _, tt := range tests {
		if got := CommonSuffixLength(tt.a, tt.b); got != tt.want {
			t.Errorf("CommonSuffixLength(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCommonOverlapLength(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abcd", 0},
		{"abc", "abcd", 3},
		{"123456", "abcd", 0},
		{"123456xxx", "xxxabcd", 3},
		// Ligatures are distinct code points.
		{"fi", "ﬁi", 0},
	}
	for _, tt := range tests {
		if got := CommonOverlapLength(tt.a, tt.b); got != tt.want {
			t.Errorf("CommonOverlapLength(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCommonBytesStayOnRuneBoundaries(t *testing.T) {
	// é is C3 A9 and è is C3 A8: the shared lead byte must not be split off.
	if got := commonPrefixBytes("é", "è"); got != 0 {
		t.Errorf("commonPrefixBytes = %d, want 0", got)
	}
	// ש (D7 A9) and ة (D8 A9) share only the trailing continuation byte.
	if got := commonSuffixBytes("aש", "bة"); got != 0 {
		t.Errorf("commonSuffixBytes = %d, want 0", got)
	}
}

func TestHalfMatch(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want []string // a1, a2, b1, b2, common
	}{
		{"no match", "1234567890", "abcdef", nil},
		{"too short", "12345", "23", nil},
		{"single match", "1234567890", "a345678z", []string{"12", "90", "a", "z", "345678"}},
		{"single match swapped", "a345678z", "1234567890", []string{"a", "z", "12", "90", "345678"}},
		{"single match uneven", "abc56789z", "1234567890", []string{"abc", "z", "1234", "0", "56789"}},
		{"multiple matches", "121231234123451234123121", "a1234123451234z", []string{"12123", "123121", "a", "z", "1234123451234"}},
		{"multiple matches 2", "x-=-=-=-=-=-=-=-=-=-=-=-=", "xx-=-=-=-=-=-=-=", []string{"", "-=-=-=-=-=", "x", "", "x-=-=-=-=-=-=-="}},
		{"multiple matches 3", "-=-=-=-=-=-=-=-=-=-=-=-=y", "-=-=-=-=-=-=-=yy", []string{"-=-=-=-=-=", "", "", "y", "-=-=-=-=-=-=-=y"}},
		{"non-optimal", "qHilloHelloHew", "xHelloHeHulloy", []string{"qHillo", "w", "x", "Hulloy", "HelloHe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm := halfMatch([]rune(tt.a), []rune(tt.b), true)
			if tt.want == nil {
				if hm != nil {
					t.Fatalf("got %+v, want nil", hm)
				}
				return
			}
			if hm == nil {
				t.Fatalf("got nil, want %q", tt.want)
			}
			got := []string{string(hm.a1), string(hm.a2), string(hm.b1), string(hm.b2), string(hm.common)}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}

	if hm := halfMatch([]rune("qHilloHelloHew"), []rune("xHelloHeHulloy"), false); hm != nil {
		t.Fatalf("half match without deadline: got %+v, want nil", hm)
	}
}

func TestLinesToChars(t *testing.T) {
	c1, c2, lines := LinesToChars("alpha\nbeta\nalpha\n", "beta\nalpha\nbeta\n")
	if c1 != "\x01\x02\x01" || c2 != "\x02\x01\x02" {
		t.Fatalf("chars = %q, %q", c1, c2)
	}
	if want := []string{"", "alpha\n", "beta\n"}; !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}

	c1, c2, lines = LinesToChars("", "alpha\r\nbeta\r\n\r\n\r\n")
	if c1 != "" || c2 != "\x01\x02\x03\x03" {
		t.Fatalf("chars = %q, %q", c1, c2)
	}
	if want := []string{"", "alpha\r\n", "beta\r\n", "\r\n"}; !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}

	c1, c2, _ = LinesToChars("a", "b")
	if c1 != "\x01" || c2 != "\x02" {
		t.Fatalf("chars = %q, %q", c1, c2)
	}
}

func TestLinesToCharsManyLinesRoundTrip(t *testing.T) {
	// More distinct lines than fit below the surrogate range. Only the
	// second text may use that many.
	const n = 60000
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(strings.Repeat("x", i%7))
		b.WriteString(time.Duration(i).String())
		b.WriteByte('\n')
	}
	text := b.String()
	_, c2, lines := LinesToChars("", text)
	if len(lines) != n+1 {
		t.Fatalf("got %d lines, want %d", len(lines), n+1)
	}
	diffs := CharsToLines([]Diff{ins(c2)}, lines)
	if diffs[0].Text != text {
		t.Fatal("round trip through line encoding lost text")
	}
}

func TestCharsToLines(t *testing.T) {
	got := CharsToLines([]Diff{eq("\x01\x02\x01"), ins("\x02\x01\x02")}, []string{"", "alpha\n", "beta\n"})
	assertDiffs(t, got, []Diff{eq("alpha\nbeta\nalpha\n"), ins("beta\nalpha\nbeta\n")})
}

func TestCleanupMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []Diff
		want []Diff
	}{
		{"null case", nil, nil},
		{"no change", []Diff{eq("a"), del("b"), ins("c")}, []Diff{eq("a"), del("b"), ins("c")}},
		{"merge equalities", []Diff{eq("a"), eq("b"), eq("c")}, []Diff{eq("abc")}},
		{"merge deletions", []Diff{del("a"), del("b"), del("c")}, []Diff{del("abc")}},
		{"merge insertions", []Diff{ins("a"), ins("b"), ins("c")}, []Diff{ins("abc")}},
		{"merge interweave", []Diff{del("a"), ins("b"), del("c"), ins("d"), eq("e"), eq("f")}, []Diff{del("ac"), ins("bd"), eq("ef")}},
		{"prefix and suffix detection", []Diff{del("a"), ins("abc"), del("dc")}, []Diff{eq("a"), del("d"), ins("b"), eq("c")}},
		{"prefix and suffix with equalities", []Diff{eq("x"), del("a"), ins("abc"), del("dc"), eq("y")}, []Diff{eq("xa"), del("d"), ins("b"), eq("cy")}},
		{"slide edit left", []Diff{eq("a"), ins("ba"), eq("c")}, []Diff{ins("ab"), eq("ac")}},
		{"slide edit right", []Diff{eq("c"), ins("ab"), eq("a")}, []Diff{eq("ca"), ins("ba")}},
		{"slide edit left recursive", []Diff{eq("a"), del("b"), eq("c"), del("ac"), eq("x")}, []Diff{del("abc"), eq("acx")}},
		{"slide edit right recursive", []Diff{eq("x"), del("ca"), eq("c"), del("b"), eq("a")}, []Diff{eq("xca"), del("cba")}},
		{"empty merge", []Diff{del("b"), ins("ab"), eq("c")}, []Diff{ins("a"), eq("bc")}},
		{"empty equality", []Diff{eq(""), ins("a"), eq("b")}, []Diff{ins("a"), eq("b")}},
		{"empty edit dropped", []Diff{eq("a"), ins(""), eq("b")}, []Diff{eq("ab")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDiffs(t, CleanupMerge(Clone(tt.in)), tt.want)
		})
	}
}

func TestCleanupSemanticLossless(t *testing.T) {
	tests := []struct {
		name string
		in   []Diff
		want []Diff
	}{
		{"null case", nil, nil},
		{"blank lines", []Diff{eq("AAA\r\n\r\nBBB"), ins("\r\nDDD\r\n\r\nBBB"), eq("\r\nEEE")}, []Diff{eq("AAA\r\n\r\n"), ins("BBB\r\nDDD\r\n\r\n"), eq("BBB\r\nEEE")}},
		{"line boundaries", []Diff{eq("AAA\r\nBBB"), ins(" DDD\r\nBBB"), eq(" EEE")}, []Diff{eq("AAA\r\n"), ins("BBB DDD\r\n"), eq("BBB EEE")}},
		{"word boundaries", []Diff{eq("The c"), ins("ow and the c"), eq("at.")}, []Diff{eq("The "), ins("cow and the "), eq("cat.")}},
		{"alphanumeric boundaries", []Diff{eq("The-c"), ins("ow-and-the-c"), eq("at.")}, []Diff{eq("The-"), ins("cow-and-the-"), eq("cat.")}},
		{"hitting the start", []Diff{eq("a"), del("a"), eq("ax")}, []Diff{del("a"), eq("aax")}},
		{"hitting the end", []Diff{eq("xa"), del("a"), eq("a")}, []Diff{eq("xaa"), del("a")}},
		{"sentence boundaries", []Diff{eq("The xxx. The "), ins("zzz. The "), eq("yyy.")}, []Diff{eq("The xxx."), ins(" The zzz."), eq(" The yyy.")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDiffs(t, CleanupSemanticLossless(Clone(tt.in)), tt.want)
		})
	}
}

func TestCleanupSemantic(t *testing.T) {
	tests := []struct {
		name string
		in   []Diff
		want []Diff
	}{
		{"null case", nil, nil},
		{"no elimination", []Diff{del("ab"), ins("cd"), eq("12"), del("e")}, []Diff{del("ab"), ins("cd"), eq("12"), del("e")}},
		{"no elimination 2", []Diff{del("abc"), ins("ABC"), eq("1234"), del("wxyz")}, []Diff{del("abc"), ins("ABC"), eq("1234"), del("wxyz")}},
		{"simple elimination", []Diff{del("a"), eq("b"), del("c")}, []Diff{del("abc"), ins("b")}},
		{"backpass elimination", []Diff{del("ab"), eq("cd"), del("e"), eq("f"), ins("g")}, []Diff{del("abcdef"), ins("cdfg")}},
		{"multiple eliminations", []Diff{ins("1"), eq("A"), del("B"), ins("2"), eq("_"), ins("1"), eq("A"), del("B"), ins("2")}, []Diff{del("AB_AB"), ins("1A2_1A2")}},
		{"word boundaries", []Diff{eq("The c"), del("ow and the c"), eq("at.")}, []Diff{eq("The "), del("cow and the "), eq("cat.")}},
		{"no overlap elimination", []Diff{del("abcxx"), ins("xxdef")}, []Diff{del("abcxx"), ins("xxdef")}},
		{"overlap elimination", []Diff{del("abcxxx"), ins("xxxdef")}, []Diff{del("abc"), eq("xxx"), ins("def")}},
		{"reverse overlap elimination", []Diff{del("xxxabc"), ins("defxxx")}, []Diff{ins("def"), eq("xxx"), del("abc")}},
		{"two overlap eliminations", []Diff{del("abcd1212"), ins("1212efghi"), eq("----"), del("A3"), ins("3BC")}, []Diff{del("abcd"), eq("1212"), ins("efghi"), eq("----"), del("A"), eq("3"), ins("BC")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDiffs(t, CleanupSemantic(Clone(tt.in)), tt.want)
		})
	}
}

func TestCleanupEfficiency(t *testing.T) {
	tests := []struct {
		name string
		cost int
		in   []Diff
		want []Diff
	}{
		{"null case", 4, nil, nil},
		{"no elimination", 4, []Diff{del("ab"), ins("12"), eq("wxyz"), del("cd"), ins("34")}, []Diff{del("ab"), ins("12"), eq("wxyz"), del("cd"), ins("34")}},
		{"four-edit elimination", 4, []Diff{del("ab"), ins("12"), eq("xyz"), del("cd"), ins("34")}, []Diff{del("abxyzcd"), ins("12xyz34")}},
		{"three-edit elimination", 4, []Diff{ins("12"), eq("x"), del("cd"), ins("34")}, []Diff{del("xcd"), ins("12x34")}},
		{"backpass elimination", 4, []Diff{del("ab"), ins("12"), eq("xy"), ins("34"), eq("z"), del("cd"), ins("56")}, []Diff{del("abxyzcd"), ins("12xy34z56")}},
		{"high cost elimination", 5, []Diff{del("ab"), ins("12"), eq("wxyz"), del("cd"), ins("34")}, []Diff{del("abwxyzcd"), ins("12wxyz34")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDiffs(t, CleanupEfficiency(Clone(tt.in), tt.cost), tt.want)
		})
	}
}

func TestPrettyText(t *testing.T) {
	got := PrettyText([]Diff{eq("a\n"), del("<B>b</B>"), ins("c&d")})
	if want := "a\n[-<B>b</B>-]{+c&d+}"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestText1Text2(t *testing.T) {
	diffs := []Diff{eq("jump"), del("s"), ins("ed"), eq(" over "), del("the"), ins("a"), eq(" lazy")}
	if got := Text1(diffs); got != "jumps over the lazy" {
		t.Errorf("Text1 = %q", got)
	}
	if got := Text2(diffs); got != "jumped over a lazy" {
		t.Errorf("Text2 = %q", got)
	}
}

func TestDelta(t *testing.T) {
	diffs := []Diff{eq("jump"), del("s"), ins("ed"), eq(" over "), del("the"), ins("a"), eq(" lazy"), ins("old dog")}
	text1 := Text1(diffs)
	if text1 != "jumps over the lazy" {
		t.Fatalf("Text1 = %q", text1)
	}

	delta := ToDelta(diffs)
	if want := "=4\t-1\t+ed\t=6\t-3\t+a\t=5\t+old dog"; delta != want {
		t.Fatalf("ToDelta = %q, want %q", delta, want)
	}

	got, err := FromDelta(text1, delta)
	if err != nil {
		t.Fatalf("FromDelta: %v", err)
	}
	assertDiffs(t, got, diffs)
}

func TestFromDeltaErrors(t *testing.T) {
	const text1 = "jumps over the lazy"
	const delta = "=4\t-1\t+ed\t=6\t-3\t+a\t=5\t+old dog"
	tests := []struct {
		name  string
		text1 string
		delta string
	}{
		{"source too long", text1 + "x", delta},
		{"source too short", text1[1:], delta},
		{"invalid escape", "", "+%c3%xy"},
		{"invalid utf8 escape", "", "+%C3"},
		{"non-numeric length", "abc", "=a"},
		{"negative length", "abc", "=-1\t=4"},
		{"empty length", "abc", "="},
		{"signed equality", "abc", "=+3"},
		{"signed deletion", "abc", "-+2\t=1"},
		{"spaced length", "abc", "= 3"},
		{"invalid utf8 source", "a\xffc", "=3"},
		{"unknown operation", "abc", "*3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diffs, err := FromDelta(tt.text1, tt.delta)
			if err == nil {
				t.Fatalf("expected error, got %v", diffs)
			}
			if diffs != nil {
				t.Fatalf("partial result returned: %v", diffs)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("error %v does not match ErrMalformed", err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not a *FormatError", err)
			}
		})
	}
}

func TestValidateText(t *testing.T) {
	if err := ValidateText("plain", "żółw", ""); err != nil {
		t.Fatalf("ValidateText(valid): %v", err)
	}
	err := ValidateText("ok", "x\xffy")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("ValidateText(invalid): got %v, want ErrMalformed", err)
	}
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Input != "\xff" || !strings.Contains(fe.Reason, "byte 1") {
		t.Fatalf("ValidateText(invalid): got %#v", err)
	}
}

func TestDeltaSpecialCharacters(t *testing.T) {
	diffs := []Diff{eq("ڀ \x00 \t %"), del("ځ \x01 \n ^"), ins("ڂ \x02 \\ |")}
	text1 := Text1(diffs)
	if text1 != "ڀ \x00 \t %ځ \x01 \n ^" {
		t.Fatalf("Text1 = %q", text1)
	}
	delta := ToDelta(diffs)
	if want := "=7\t-7\t+%DA%82 %02 %5C %7C"; delta != want {
		t.Fatalf("ToDelta = %q, want %q", delta, want)
	}
	got, err := FromDelta(text1, delta)
	if err != nil {
		t.Fatalf("FromDelta: %v", err)
	}
	assertDiffs(t, got, diffs)
}

func TestDeltaUnescapedCharacters(t *testing.T) {
	diffs := []Diff{ins("A-Z a-z 0-9 - _ . ! ~ * ' ( ) ; / ? : @ & = + $ , # ")}
	delta := ToDelta(diffs)
	if want := "+A-Z a-z 0-9 - _ . ! ~ * ' ( ) ; / ? : @ & = + $ , # "; delta != want {
		t.Fatalf("ToDelta = %q, want %q", delta, want)
	}
	got, err := FromDelta("", delta)
	if err != nil {
		t.Fatalf("FromDelta: %v", err)
	}
	assertDiffs(t, got, diffs)
}

func TestDeltaRoundTrip(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"", "new"},
		{"old", ""},
		{"The quick brown fox.", "The quick red fox jumps."},
		{"日本語のテキスト", "日本のテキストです"},
		{"emoji 🙂 here", "emoji 🙃 there"},
		{"a%20b", "a b%"},
	}
	for _, p := range pairs {
		diffs := Main(p[0], p[1], false, DefaultOptions())
		got, err := FromDelta(p[0], ToDelta(diffs))
		if err != nil {
			t.Fatalf("FromDelta(%q): %v", p[0], err)
		}
		if Text2(got) != p[1] {
			t.Errorf("round trip of %q -> %q produced %q", p[0], p[1], Text2(got))
		}
	}
}

func TestXIndex(t *testing.T) {
	if got := XIndex([]Diff{del("a"), ins("1234"), eq("xyz")}, 2); got != 5 {
		t.Errorf("translation on equality: got %d, want 5", got)
	}
	if got := XIndex([]Diff{eq("a"), del("1234"), eq("xyz")}, 3); got != 1 {
		t.Errorf("translation on deletion: got %d, want 1", got)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		diffs []Diff
		want  int
	}{
		{[]Diff{del("abc"), ins("1234"), eq("xyz")}, 4},
		{[]Diff{eq("xyz"), del("abc"), ins("1234")}, 4},
		{[]Diff{del("abc"), eq("xyz"), ins("1234")}, 7},
		{[]Diff{del("ü"), ins("ä")}, 1},
	}
	for _, tt := range tests {
		if got := Levenshtein(tt.diffs); got != tt.want {
			t.Errorf("Levenshtein(%v) = %d, want %d", tt.diffs, got, tt.want)
		}
	}
}

func TestBisect(t *testing.T) {
	got := Bisect("cat", "map", time.Time{})
	assertDiffs(t, got, []Diff{del("c"), ins("m"), eq("a"), del("t"), ins("p")})

	// An expired deadline degrades to a full replacement.
	got = Bisect("cat", "map", time.Now().Add(-time.Second))
	assertDiffs(t, got, []Diff{del("cat"), ins("map")})
}

func TestMainDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want []Diff
	}{
		{"null case", "", "", nil},
		{"equality", "abc", "abc", []Diff{eq("abc")}},
		{"simple insertion", "abc", "ab123c", []Diff{eq("ab"), ins("123"), eq("c")}},
		{"simple deletion", "a123bc", "abc", []Diff{eq("a"), del("123"), eq("bc")}},
		{"two insertions", "abc", "a123b456c", []Diff{eq("a"), ins("123"), eq("b"), ins("456"), eq("c")}},
		{"two deletions", "a123b456c", "abc", []Diff{eq("a"), del("123"), eq("b"), del("456"), eq("c")}},
		{"simple case", "a", "b", []Diff{del("a"), ins("b")}},
		{"sentence", "Apples are a fruit.", "Bananas are also fruit.", []Diff{del("Apple"), ins("Banana"), eq("s are a"), ins("lso"), eq(" fruit.")}},
		{"non-ascii", "ax\t", "ڀx\x00", []Diff{del("a"), ins("ڀ"), eq("x"), del("\t"), ins("\x00")}},
		{"overlap", "1ayb2", "abxab", []Diff{del("1"), eq("a"), del("y"), eq("b"), del("2"), ins("xab")}},
		{"overlap 2", "abcy", "xaxcxabc", []Diff{ins("xaxcx"), eq("abc"), del("y")}},
		{"overlap 3", "ABCDa=bcd=efghijklmnopqrsEFGHIJKLMNOefg", "a-bcd-efghijklmnopqrs", []Diff{del("ABCD"), eq("a"), del("="), ins("-"), eq("bcd"), del("="), ins("-"), eq("efghijklmnopqrs"), del("EFGHIJKLMNOefg")}},
		{"surrogate-free runes", "🙂a", "🙃a", []Diff{del("🙂"), ins("🙃"), eq("a")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDiffs(t, Main(tt.a, tt.b, false, noTimeout), tt.want)
		})
	}
}

func TestMainReconstructsInputs(t *testing.T) {
	pairs := [][2]string{
		{"The quick brown fox jumps over the lazy dog.", "That quick brown fox jumped over a lazy dog."},
		{"日本語のテキスト", "日本のテキストです"},
		{"", "only insert"},
		{"only delete", ""},
	}
	for _, p := range pairs {
		for _, opts := range []Options{noTimeout, DefaultOptions()} {
			diffs := Main(p[0], p[1], true, opts)
			if Text1(diffs) != p[0] || Text2(diffs) != p[1] {
				t.Errorf("Main(%q, %q) = %v does not reconstruct inputs", p[0], p[1], diffs)
			}
		}
	}
}

func TestMainTimeout(t *testing.T) {
	a := "`Twas brillig, and the slithy toves\nDid gyre and gimble in the wabe:\nAll mimsy were the borogoves,\nAnd the mome raths outgrabe.\n"
	b := "I am the very model of a modern major general,\nI've information vegetable, animal, and mineral,\nI know the kings of England, and I quote the fights historical,\nFrom Marathon to Waterloo, in order categorical.\n"
	for i := 0; i < 10; i++ {
		a += a
		b += b
	}
	opts := Options{Timeout: 100 * time.Millisecond, EditCost: 4}
	start := time.Now()
	diffs := Main(a, b, false, opts)
	elapsed := time.Since(start)

	if Text1(diffs) != a || Text2(diffs) != b {
		t.Fatal("timed out diff does not reconstruct inputs")
	}
	if elapsed < opts.Timeout {
		t.Fatalf("returned after %v, before the %v timeout", elapsed, opts.Timeout)
	}
	// Generous bound so slow machines do not flake.
	if elapsed > 50*opts.Timeout {
		t.Fatalf("returned after %v, far beyond the %v timeout", elapsed, opts.Timeout)
	}
}

func TestMainLineMode(t *testing.T) {
	a := strings.Repeat("1234567890\n", 13)
	b := strings.Repeat("abcdefghij\n", 13)
	assertDiffs(t, Main(a, b, true, noTimeout), Main(a, b, false, noTimeout))

	a = strings.Repeat("1234567890", 13)
	b = strings.Repeat("abcdefghij", 13)
	assertDiffs(t, Main(a, b, true, noTimeout), Main(a, b, false, noTimeout))

	// Line mode may pick a different script, but it must describe the same
	// transformation.
	a = "1234567890\n1234567890\n1234567890\n1234567890\n1234567890\n1234567890\n1234567890\n1234567890\n1234567890\n1234567890\n1234567890\n1234567890\n1234567890\n"
	b = "abcdefghij\n1234567890\n1234567890\n1234567890\nabcdefghij\n1234567890\n1234567890\n1234567890\nabcdefghij\n1234567890\n1234567890\n1234567890\nabcdefghij\n"
	withLines := Main(a, b, true, noTimeout)
	if Text1(withLines) != a || Text2(withLines) != b {
		t.Fatal("line mode diff does not reconstruct inputs")
	}
}

func TestLineMode(t *testing.T) {
	a := "alpha\nbeta\ngamma\n"
	b := "alpha\nBETA\ngamma\ndelta\n"
	got := LineMode(a, b, noTimeout)
	assertDiffs(t, got, []Diff{eq("alpha\n"), del("beta\n"), ins("BETA\n"), eq("gamma\n"), ins("delta\n")})
}

func TestOperationString(t *testing.T) {
	if Delete.String() != "Delete" || Insert.String() != "Insert" || Equal.String() != "Equal" {
		t.Fatalf("unexpected names: %v %v %v", Delete, Insert, Equal)
	}
	if Operation(7).String() != "Unknown" {
		t.Fatalf("got %q for unknown operation", Operation(7).String())
	}
}
