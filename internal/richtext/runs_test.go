package richtext

import (
	"reflect"
	"testing"
)

func bold(text string) Run   { return Run{Text: text, Bold: true} }
func plain(text string) Run  { return Run{Text: text} }
func italic(text string) Run { return Run{Text: text, Italic: true} }

func TestFullText(t *testing.T) {
	runs := []Run{bold("Hello "), plain("world")}
	if got := FullText(runs); got != "Hello world" {
		t.Errorf("FullText() = %q, want %q", got, "Hello world")
	}
	if got := FullText(nil); got != "" {
		t.Errorf("FullText(nil) = %q, want empty", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []Run
		want []Run
	}{
		{
			"merges equal styles",
			[]Run{bold("a"), bold("b"), plain("c")},
			[]Run{bold("ab"), plain("c")},
		},
		{
			"drops empty runs",
			[]Run{plain(""), bold("x"), plain("")},
			[]Run{bold("x")},
		},
		{
			"empty element keeps one empty run",
			[]Run{plain(""), plain("")},
			[]Run{{}},
		},
		{
			"different styles stay separate",
			[]Run{bold("a"), italic("b")},
			[]Run{bold("a"), italic("b")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeStable(t *testing.T) {
	in := []Run{bold("a"), bold(""), bold("b"), plain("c"), plain("d")}
	once := Normalize(in)
	twice := Normalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Normalize not idempotent: %+v vs %+v", once, twice)
	}
}

func TestSplitAt(t *testing.T) {
	runs := []Run{bold("abc"), plain("def")}

	got := SplitAt(runs, 1, 4)
	want := []Run{bold("a"), bold("bc"), plain("d"), plain("ef")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitAt(1,4) = %+v, want %+v", got, want)
	}

	if got := FullText(SplitAt(runs, 0, 3, 6)); got != "abcdef" {
		t.Errorf("SplitAt at boundaries changed text: %q", got)
	}
}

func TestUpdateFromTextRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		runs    []Run
		newText string
	}{
		{"plain insert middle", []Run{plain("hello world")}, "hello brave world"},
		{"insert at start", []Run{bold("abc")}, "Xabc"},
		{"insert at end", []Run{bold("ab"), plain("cd")}, "abcdX"},
		{"delete middle", []Run{bold("ab"), plain("cd")}, "ad"},
		{"delete all", []Run{bold("abc")}, ""},
		{"replace all", []Run{bold("abc"), italic("def")}, "qqq"},
		{"no change", []Run{bold("abc")}, "abc"},
		{"from empty", []Run{{}}, "typed"},
		{"repeat chars", []Run{plain("aa")}, "aaa"},
		{"unicode", []Run{plain("héllo")}, "héllø"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := UpdateFromText(tc.runs, tc.newText)
			if FullText(got) != tc.newText {
				t.Errorf("FullText(UpdateFromText()) = %q, want %q", FullText(got), tc.newText)
			}
		})
	}
}

func TestUpdateFromTextInheritsStyleBeforeInsertion(t *testing.T) {
	runs := []Run{bold("ab"), plain("cd")}

	// Typing after "b" extends the bold run.
	got := UpdateFromText(runs, "abXcd")
	want := []Run{bold("abX"), plain("cd")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UpdateFromText() = %+v, want %+v", got, want)
	}

	// Typing at position 0 uses the first run's style.
	got = UpdateFromText(runs, "Yabcd")
	want = []Run{bold("Yab"), plain("cd")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UpdateFromText() = %+v, want %+v", got, want)
	}
}

func TestUpdateFromTextPreservesSuffixStyle(t *testing.T) {
	runs := []Run{plain("one "), bold("two")}
	got := UpdateFromText(runs, "one fine two")
	want := []Run{plain("one fine "), bold("two")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UpdateFromText() = %+v, want %+v", got, want)
	}
}

func TestApplyToRangeToggle(t *testing.T) {
	runs := []Run{plain("hello world")}

	styled := ApplyToRange(runs, 0, 5, FieldBold)
	want := []Run{bold("hello"), plain(" world")}
	if !reflect.DeepEqual(styled, want) {
		t.Errorf("ApplyToRange() = %+v, want %+v", styled, want)
	}

	// Applying again to the same range toggles it back off.
	back := ApplyToRange(styled, 0, 5, FieldBold)
	if !reflect.DeepEqual(back, []Run{plain("hello world")}) {
		t.Errorf("toggle back = %+v, want single plain run", back)
	}
}

func TestApplyToRangeMixedTurnsOn(t *testing.T) {
	// Range already partially bold: the toggle makes the whole range bold.
	runs := []Run{bold("ab"), plain("cd")}
	got := ApplyToRange(runs, 0, 4, FieldBold)
	if !reflect.DeepEqual(got, []Run{bold("abcd")}) {
		t.Errorf("ApplyToRange() = %+v, want one bold run", got)
	}
}

func TestApplyToRangeEmptyRangeStylesAll(t *testing.T) {
	runs := []Run{plain("abc")}
	got := ApplyToRange(runs, 2, 2, FieldItalic)
	if !reflect.DeepEqual(got, []Run{italic("abc")}) {
		t.Errorf("ApplyToRange() = %+v, want whole text italic", got)
	}
}

func TestApplyToRangeIndependentFields(t *testing.T) {
	runs := []Run{plain("abcd")}
	got := ApplyToRange(runs, 0, 2, FieldBold)
	got = ApplyToRange(got, 1, 3, FieldStrikethrough)

	want := []Run{
		{Text: "a", Bold: true},
		{Text: "b", Bold: true, Strikethrough: true},
		{Text: "c", Strikethrough: true},
		{Text: "d"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ApplyToRange() = %+v, want %+v", got, want)
	}
}
