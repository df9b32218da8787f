package diffalign

import (
	"reflect"
	"strings"
	"testing"
)

func TestIsWeakAnchor(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"}", true},
		{"});", true},
		{"]", true},
		{"return nil", false},
		{"x", false},
		{"func main() {", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := isWeakAnchor(Line(tt.line)); got != tt.want {
				t.Errorf("isWeakAnchor(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}

	if isWeakAnchor(tokenElement(1)) {
		t.Error("non-line elements are never weak anchors")
	}
}

func TestHistogramDiff_Empty(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want []DiffOp
	}{
		{"both empty", nil, nil, nil},
		{"a empty", nil, []string{"x"}, []DiffOp{{Type: Insert, AStart: 0, AEnd: 0, BStart: 0, BEnd: 1}}},
		{"b empty", []string{"x"}, nil, []DiffOp{{Type: Delete, AStart: 0, AEnd: 1, BStart: 0, BEnd: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffHistogram(tt.a, tt.b)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DiffHistogram() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistogramDiff_Equal(t *testing.T) {
	a := []string{"a", "b", "c"}
	got := DiffHistogram(a, a)
	want := []DiffOp{{Type: Equal, AStart: 0, AEnd: 3, BStart: 0, BEnd: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DiffHistogram() = %v, want %v", got, want)
	}
}

func TestFindAnchor_LowFrequency(t *testing.T) {
	// "x" is everywhere, "unique" appears once in each: it is the anchor.
	a := toElements([]string{"x", "x", "unique", "x", "x"})
	b := toElements([]string{"x", "unique", "x", "x", "x", "x"})
	ctx := newDiffContext(a, b, defaultOptions())

	ax, by, ok := ctx.findAnchor(0, len(a), 0, len(b))
	if !ok {
		t.Fatal("expected an anchor")
	}
	if ax != 2 || by != 1 {
		t.Errorf("anchor = (%d,%d), want (2,1)", ax, by)
	}
}

func TestFindAnchor_SkipsWeakLines(t *testing.T) {
	a := toElements([]string{"}", "", "a"})
	b := toElements([]string{"b", "", "}"})
	ctx := newDiffContext(a, b, defaultOptions())

	if _, _, ok := ctx.findAnchor(0, len(a), 0, len(b)); ok {
		t.Error("blank lines and braces should not anchor")
	}
}

func TestFindAnchor_BalancedPosition(t *testing.T) {
	// "k" occurs twice in A; the occurrence at a similar relative position
	// to B's wins.
	a := toElements([]string{"k", "p", "q", "r", "k"})
	b := toElements([]string{"s", "t", "u", "k"})
	ctx := newDiffContext(a, b, defaultOptions())

	ax, by, ok := ctx.findAnchor(0, len(a), 0, len(b))
	if !ok {
		t.Fatal("expected an anchor")
	}
	if ax != 4 || by != 3 {
		t.Errorf("anchor = (%d,%d), want (4,3)", ax, by)
	}
}

func TestHistogramDiff_MyersFallback(t *testing.T) {
	// Only weak lines in common: Myers still matches them.
	a := []string{"a", "}", "b"}
	b := []string{"c", "}", "d"}

	ops := DiffHistogram(a, b, WithPreprocessing(false), WithPostprocessing(false))
	want := []DiffOp{
		{Type: Replace, AStart: 0, AEnd: 1, BStart: 0, BEnd: 1},
		{Type: Equal, AStart: 1, AEnd: 2, BStart: 1, BEnd: 2},
		{Type: Replace, AStart: 2, AEnd: 3, BStart: 2, BEnd: 3},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("DiffHistogram() = %v, want %v", ops, want)
	}
}

func TestHistogramDiff_MovedBlock(t *testing.T) {
	old := strings.Split("alpha\nbeta\ngamma\ndelta\nepsilon", "\n")
	updated := strings.Split("alpha\ndelta\nbeta\ngamma\nepsilon", "\n")

	for _, alg := range []Algorithm{Myers, Histogram} {
		ops := Diff(old, updated, WithAlgorithm(alg))
		if err := validateOps(ops, len(old), len(updated)); err != nil {
			t.Fatalf("algorithm %d: %v", alg, err)
		}
		if got := applyDiff(old, updated, ops); !reflect.DeepEqual(got, updated) {
			t.Errorf("algorithm %d: applying ops gave %v", alg, got)
		}
	}
}

func TestHistogramDiff_CodeTokens(t *testing.T) {
	old := []string{
		"func a() {",
		"\treturn 1",
		"}",
		"",
		"func b() {",
		"\treturn 2",
		"}",
	}
	updated := []string{
		"func b() {",
		"\treturn 2",
		"}",
		"",
		"func c() {",
		"\treturn 3",
		"}",
	}

	ops := DiffHistogram(old, updated)
	if err := validateOps(ops, len(old), len(updated)); err != nil {
		t.Fatal(err)
	}

	// func b() survives as an Equal run
	preserved := false
	for _, op := range ops {
		if op.Type == Equal && old[op.AStart] == "func b() {" {
			preserved = true
		}
	}
	if !preserved {
		t.Errorf("expected func b() to be kept, got %v", ops)
	}
}

func TestHistogramDiff_LargeInput(t *testing.T) {
	var old, updated []string
	for i := 0; i < 300; i++ {
		line := strings.Repeat("x", i%7) + string(rune('a'+i%26))
		old = append(old, line)
		if i%17 != 0 {
			updated = append(updated, line)
		} else {
			updated = append(updated, "changed")
		}
	}

	ops := DiffHistogram(old, updated)
	if err := validateOps(ops, len(old), len(updated)); err != nil {
		t.Fatal(err)
	}
	if got := applyDiff(old, updated, ops); !reflect.DeepEqual(got, updated) {
		t.Error("histogram diff did not reproduce the new text")
	}
}

func BenchmarkDiffHistogram_Medium(b *testing.B) {
	a := make([]string, 100)
	bSeq := make([]string, 100)
	for i := 0; i < 100; i++ {
		a[i] = string(rune('a' + (i % 26)))
		bSeq[i] = string(rune('a' + (i % 26)))
	}
	bSeq[10] = "X"
	bSeq[50] = "Y"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DiffHistogram(a, bSeq)
	}
}
