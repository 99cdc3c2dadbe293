package merge

import (
	"reflect"
	"testing"

	"github.com/odvcencio/strand/pkg/diff"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name                string
		origin, left, right string
		policy              Policy
		want                string
	}{
		{"disjoint lines", "a\nb\nc\n", "a\nB\nc\n", "a\nb\nC\n", RaiseConflict, "a\nB\nC\n"},
		{"same change on both sides", "a\nb\nc\n", "a\nX\nc\n", "a\nX\nc\nd\n", RaiseConflict, "a\nX\nc\nd\n"},
		{"left untouched", "a\nb\n", "a\nb\n", "z\nb\n", RaiseConflict, "z\nb\n"},
		{"deletion and edit elsewhere", "a\nb\nc\n", "a\nc\n", "a\nb\nC\n", RaiseConflict, "a\nC\n"},
		{"no trailing newline", "a\nb", "a\nb\nc", "A\nb", RaiseConflict, "A\nb\nc"},
		{"conflict take left", "a\nb\nc\n", "a\nX\nc\n", "a\nY\nc\n", TakeLeft, "a\nX\nc\n"},
		{"conflict take right", "a\nb\nc\n", "a\nX\nc\n", "a\nY\nc\n", TakeRight, "a\nY\nc\n"},
		{"cheaper left", "a\nb\nc\n", "a\nX\nc\n", "a\nY1\nY2\nc\n", PreferCheaper, "a\nX\nc\n"},
		{"cheaper right", "a\nb\nc\n", "a\nX1\nX2\nc\n", "a\nY\nc\n", PreferCheaper, "a\nY\nc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lines(tt.origin, tt.left, tt.right, tt.policy, diff.Options{})
			if err != nil {
				t.Fatalf("Lines: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLinesConflict(t *testing.T) {
	tests := []struct {
		name                string
		origin, left, right string
		want                []Conflict
	}{
		{
			name:   "modified line",
			origin: "a\nb\nc\n", left: "a\nX\nc\n", right: "a\nY\nc\n",
			want: []Conflict{{Key: 1, Kind: ModifyModify, Origin: "b\n", Left: "X\n", Right: "Y\n"}},
		},
		{
			name:   "appended lines",
			origin: "a\n", left: "a\nL\n", right: "a\nR\n",
			want: []Conflict{{Key: 1, Kind: InsertInsert, Origin: "", Left: "L\n", Right: "R\n"}},
		},
		{
			name:   "two regions",
			origin: "a\nb\nc\nd\n", left: "A1\nb\nc\nD1\n", right: "A2\nb\nc\nD2\n",
			want: []Conflict{
				{Key: 0, Kind: ModifyModify, Origin: "a\n", Left: "A1\n", Right: "A2\n"},
				{Key: 3, Kind: ModifyModify, Origin: "d\n", Left: "D1\n", Right: "D2\n"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lines(tt.origin, tt.left, tt.right, RaiseConflict, diff.Options{})
			if got := conflictsOf(t, err); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("conflicts = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLinesWithMarkers(t *testing.T) {
	got, n := LinesWithMarkers("a\nb\nc\n", "a\nX\nc\n", "a\nY\nc\n", diff.Options{})
	want := "a\n<<<<<<< left\nX\n||||||| origin\nb\n=======\nY\n>>>>>>> right\nc\n"
	if got != want || n != 1 {
		t.Fatalf("got %q (%d conflicts), want %q (1 conflict)", got, n, want)
	}

	got, n = LinesWithMarkers("a\nb", "a\nX", "a\nY", diff.Options{})
	want = "a\n<<<<<<< left\nX\n||||||| origin\nb\n=======\nY\n>>>>>>> right\n"
	if got != want || n != 1 {
		t.Fatalf("unterminated: got %q (%d conflicts), want %q", got, n, want)
	}

	got, n = LinesWithMarkers("a\nb\nc\n", "a\nB\nc\n", "a\nb\nC\n", diff.Options{})
	if got != "a\nB\nC\n" || n != 0 {
		t.Fatalf("clean merge: got %q (%d conflicts)", got, n)
	}
}

func TestLinesHandler(t *testing.T) {
	h := LinesHandler(diff.DefaultOptions())
	got, err := h.Merge("one\ntwo\n", "one\ntwo\nthree\n", "zero\none\ntwo\n", RaiseConflict)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got != "zero\none\ntwo\nthree\n" {
		t.Fatalf("got %q", got)
	}
}
